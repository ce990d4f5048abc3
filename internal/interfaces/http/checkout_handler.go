package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Act962/erp-limas-sub000/internal/application/checkout"
	"github.com/Act962/erp-limas-sub000/internal/application/dto"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// CheckoutHandler maneja las peticiones HTTP de checkout y ventas (protegido).
type CheckoutHandler struct {
	uc *checkout.CheckoutUseCase
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func toCartItems(in []dto.CartItemRequest) []checkout.CartItem {
	items := make([]checkout.CartItem, 0, len(in))
	for _, item := range in {
		items = append(items, checkout.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	return items
}

// PreviewTotals godoc
// @Summary      Previsualizar totales del carrito
// @Description  Calcula subtotal, flete y total sin efectos secundarios.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewTotalsRequest  true  "items del carrito"
// @Success      200   {object}  dto.PreviewTotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/checkout/preview [post]
func (h *CheckoutHandler) PreviewTotals(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.PreviewTotalsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.PreviewCheckoutTotals(c.Context(), organizationID, toCartItems(in.Items))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PreviewTotalsResponse{
		Subtotal:              result.Subtotal,
		Freight:               result.Freight,
		Total:                 result.Total,
		IsFreeShippingApplied: result.IsFreeShippingApplied,
		IsFreightNegotiated:   result.IsFreightNegotiated,
	})
}

// CommitSale godoc
// @Summary      Confirmar venta (commit atómico)
// @Description  Asigna consecutivo, persiste venta y líneas y descuenta stock en una transacción.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitSaleRequest  true  "carrito, descuento, métodos de pago/entrega"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout/commit [post]
func (h *CheckoutHandler) CommitSale(c *fiber.Ctx) error {
	organizationID, actorID, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.CommitSale(c.Context(), checkout.CommitSaleInput{
		OrganizationID: organizationID,
		ActorID:        actorID,
		Items:          toCartItems(in.Items),
		Discount:       in.Discount,
		DiscountType:   in.DiscountType,
		PaymentMethod:  in.PaymentMethod,
		DeliveryMethod: in.DeliveryMethod,
		CustomerID:     in.CustomerID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale, nil))
}

// GetSale godoc
// @Summary      Obtener venta con sus líneas
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *CheckoutHandler) GetSale(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	sale, items, err := h.uc.GetSale(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale, items))
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.SaleResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *CheckoutHandler) ListSales(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	sales, err := h.uc.ListSales(c.Context(), repository.SaleFilter{
		OrganizationID: organizationID,
		Status:         c.Query("status"),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.FromSale(s, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "sales": out})
}

// CompleteSale godoc
// @Summary      Marcar venta como completada
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/complete [post]
func (h *CheckoutHandler) CompleteSale(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	sale, err := h.uc.CompleteSale(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale, nil))
}

// CancelSale godoc
// @Summary      Cancelar venta (DRAFT o CONFIRMED)
// @Description  No genera movimientos de compensación; ventas COMPLETED no se pueden cancelar.
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *CheckoutHandler) CancelSale(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	sale, err := h.uc.CancelSale(c.Context(), organizationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale, nil))
}
