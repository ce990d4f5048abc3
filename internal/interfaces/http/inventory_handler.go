package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Act962/erp-limas-sub000/internal/application/dto"
	"github.com/Act962/erp-limas-sub000/internal/application/inventory"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RecordEntry godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "product_id, quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RecordEntry(c *fiber.Ctx) error {
	organizationID, actorID, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.RecordEntry(c.Context(), organizationID, actorID, in.ProductID, in.Quantity, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: result.MovementID, NewStock: result.NewStock})
}

// RecordOutput godoc
// @Summary      Registrar salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOperationRequest  true  "product_id, quantity, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/outputs [post]
func (h *InventoryHandler) RecordOutput(c *fiber.Ctx) error {
	organizationID, actorID, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.StockOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.RecordOutput(c.Context(), organizationID, actorID, in.ProductID, in.Quantity, in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: result.MovementID, NewStock: result.NewStock})
}

// RecordMovement godoc
// @Summary      Registrar movimiento genérico (PURCHASE, LOSS, ADJUSTMENT...)
// @Description  ADJUSTMENT requiere signed_delta explícito; los demás tipos usan quantity.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity o signed_delta, note"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	organizationID, actorID, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.RecordMovement(c.Context(), inventory.MovementInput{
		OrganizationID: organizationID,
		ActorID:        actorID,
		ProductID:      in.ProductID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		SignedDelta:    in.SignedDelta,
		Note:           in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{MovementID: result.MovementID, NewStock: result.NewStock})
}

// ListMovements godoc
// @Summary      Listar movimientos (auditoría)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (repetible)"
// @Param        actor_id    query  string  false  "Filtrar por actor (repetible)"
// @Param        type        query  string  false  "Filtrar por tipo de movimiento"
// @Param        limit       query  int     false  "Tamaño de página"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		OrganizationID: organizationID,
		Type:           c.Query("type"),
		Limit:          page.Limit,
		Offset:         page.Offset,
	}
	filter.ProductIDs = queryAll(c, "product_id")
	filter.ActorIDs = queryAll(c, "actor_id")

	movements, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetMovement godoc
// @Summary      Detalle de un movimiento del libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	movement, err := h.ledger.GetMovement(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromMovement(movement))
}

// ReplayStock godoc
// @Summary      Reconstruir stock por replay del libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReplayResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/replay [get]
func (h *InventoryHandler) ReplayStock(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	result, err := h.ledger.ReplayStock(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReplayResponse{
		ProductID:     result.ProductID,
		MovementCount: result.MovementCount,
		InitialStock:  result.InitialStock,
		ReplayedStock: result.ReplayedStock,
		CurrentStock:  result.CurrentStock,
		ChainIntact:   result.ChainIntact,
		InSync:        result.InSync,
	})
}

// LowStock godoc
// @Summary      Productos en o por debajo del stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockProductDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	products, err := h.ledger.LowStockProducts(c.Context(), organizationID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LowStockProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.LowStockProductDTO{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			MinStock:     p.MinStock,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}
