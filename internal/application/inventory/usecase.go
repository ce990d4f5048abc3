package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	domaininv "github.com/Act962/erp-limas-sub000/internal/domain/inventory"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// LedgerUseCase registra movimientos de stock de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), validación aritmética pura,
// escritura del movimiento append-only y del stock del producto en la
// misma transacción. Si la validación rechaza, no se escribe nada.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es magnitud (>0) para ENTRY/EXIT/PURCHASE/LOSS/SALE.
// ADJUSTMENT exige SignedDelta explícito y distinto de cero; la dirección
// nunca se infiere del tipo.
type MovementInput struct {
	OrganizationID string
	ActorID        string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal
	SignedDelta    decimal.Decimal
	Note           string
	SaleID         string
}

// MovementResult resultado de un movimiento registrado.
type MovementResult struct {
	MovementID string
	NewStock   decimal.Decimal
}

// RecordEntry registra una entrada manual de stock.
func (uc *LedgerUseCase) RecordEntry(ctx context.Context, organizationID, actorID, productID string, quantity decimal.Decimal, note string) (*MovementResult, error) {
	return uc.RecordMovement(ctx, MovementInput{
		OrganizationID: organizationID,
		ActorID:        actorID,
		ProductID:      productID,
		Type:           entity.MovementTypeENTRY,
		Quantity:       quantity,
		Note:           note,
	})
}

// RecordOutput registra una salida manual de stock.
func (uc *LedgerUseCase) RecordOutput(ctx context.Context, organizationID, actorID, productID string, quantity decimal.Decimal, note string) (*MovementResult, error) {
	return uc.RecordMovement(ctx, MovementInput{
		OrganizationID: organizationID,
		ActorID:        actorID,
		ProductID:      productID,
		Type:           entity.MovementTypeEXIT,
		Quantity:       quantity,
		Note:           note,
	})
}

// RecordMovement valida la entrada, abre la transacción y aplica el
// movimiento con la fila del producto bloqueada. Commit si todo ok,
// Rollback si algo falla (TxRunner.Run lo garantiza).
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Validar que el producto exista y sea de la organización (solo lectura,
	// fuera de la tx; dentro de la tx se relee con bloqueo).
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: input.ProductID}
	}
	if product.OrganizationID != input.OrganizationID {
		return nil, domain.ErrForbidden
	}
	if !product.TrackStock {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "el producto no controla stock"}
	}

	var result *MovementResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		res, err := applyMovement(movRepo, productRepo, input, time.Now())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordSaleInTx registra la salida tipo SALE de una línea de venta usando
// los repositorios de la transacción del caller (el commit de la venta).
// Si el stock no alcanza, el error provoca el rollback de toda la venta.
func (uc *LedgerUseCase) RecordSaleInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	organizationID, actorID, productID, saleID string,
	quantity decimal.Decimal,
	now time.Time,
) error {
	_, err := applyMovement(movRepo, productRepo, MovementInput{
		OrganizationID: organizationID,
		ActorID:        actorID,
		ProductID:      productID,
		Type:           entity.MovementTypeSALE,
		Quantity:       quantity,
		SaleID:         saleID,
	}, now)
	return err
}

// applyMovement ejecuta la secuencia bloquear-validar-escribir dentro de
// una transacción ya abierta. El movimiento guarda PreviousStock/NewStock
// para que el libro sea replayable (invariante de cadena).
func applyMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input MovementInput,
	now time.Time,
) (*MovementResult, error) {
	// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar
	// condiciones de carrera entre salidas concurrentes.
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: input.ProductID}
	}

	var newStock decimal.Decimal
	var magnitude decimal.Decimal
	if input.Type == entity.MovementTypeADJUSTMENT {
		newStock, err = domaininv.ComputeAdjustment(product.ID, product.CurrentStock, input.SignedDelta, product.AllowNegative)
		magnitude = input.SignedDelta.Abs()
	} else {
		newStock, err = domaininv.ComputeNewStock(product.ID, product.CurrentStock, input.Type, input.Quantity, product.AllowNegative)
		magnitude = input.Quantity
	}
	if err != nil {
		return nil, err
	}

	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		ProductID:      product.ID,
		Type:           input.Type,
		Quantity:       magnitude,
		PreviousStock:  product.CurrentStock,
		NewStock:       newStock,
		SaleID:         input.SaleID,
		Note:           input.Note,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &MovementResult{MovementID: mov.ID, NewStock: newStock}, nil
}

func validateInput(input MovementInput) error {
	if input.ProductID == "" || input.OrganizationID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(input.Type) {
		return &domain.ValidationError{Field: "type", Reason: "tipo de movimiento desconocido"}
	}
	// SALE nunca entra por el endpoint genérico: cada movimiento SALE nace
	// del commit de la venta con su sale_id enlazado.
	if input.Type == entity.MovementTypeSALE {
		return &domain.ValidationError{Field: "type", Reason: "los movimientos SALE los genera el commit de venta"}
	}
	if input.Type == entity.MovementTypeADJUSTMENT {
		if input.SignedDelta.IsZero() {
			return &domain.ValidationError{Field: "signed_delta", Reason: "ADJUSTMENT requiere delta firmado distinto de cero"}
		}
		return nil
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return &domain.ValidationError{Field: "quantity", Reason: "la cantidad debe ser mayor que cero"}
	}
	return nil
}

// GetMovement devuelve un movimiento del libro por ID (detalle de auditoría).
func (uc *LedgerUseCase) GetMovement(ctx context.Context, organizationID, movementID string) (*entity.StockMovement, error) {
	movement, err := uc.movementRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, &domain.NotFoundError{Entity: "stock_movement", ID: movementID}
	}
	if movement.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return movement, nil
}

// ListMovements devuelve movimientos filtrados, ordenados por fecha
// descendente y paginados (vista de auditoría).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movementRepo.List(filter)
}

// ReplayResult resultado de reconstruir el stock de un producto a partir
// de su libro de movimientos.
type ReplayResult struct {
	ProductID     string
	MovementCount int
	InitialStock  decimal.Decimal
	ReplayedStock decimal.Decimal
	CurrentStock  decimal.Decimal
	ChainIntact   bool // PreviousStock de cada movimiento == NewStock del anterior
	InSync        bool // ReplayedStock == CurrentStock del producto
}

// ReplayStock pliega todos los movimientos del producto en orden
// cronológico y compara el resultado contra el stock actual. Sirve como
// verificación de integridad del libro.
func (uc *LedgerUseCase) ReplayStock(ctx context.Context, organizationID, productID string) (*ReplayResult, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	if product.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}

	movs, err := uc.movementRepo.ListByProductAsc(productID)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{
		ProductID:     productID,
		MovementCount: len(movs),
		CurrentStock:  product.CurrentStock,
		ChainIntact:   true,
	}
	if len(movs) == 0 {
		result.InitialStock = product.CurrentStock
		result.ReplayedStock = product.CurrentStock
		result.InSync = true
		return result, nil
	}

	result.InitialStock = movs[0].PreviousStock
	replayed := movs[0].PreviousStock
	prev := movs[0].PreviousStock
	for _, m := range movs {
		if !m.PreviousStock.Equal(prev) {
			result.ChainIntact = false
		}
		replayed = replayed.Add(m.SignedDelta())
		prev = m.NewStock
	}
	result.ReplayedStock = replayed
	result.InSync = replayed.Equal(product.CurrentStock)
	return result, nil
}

// LowStockProducts devuelve los productos con stock en o por debajo del
// mínimo configurado (lista de reposición).
func (uc *LedgerUseCase) LowStockProducts(ctx context.Context, organizationID string) ([]*entity.Product, error) {
	return uc.productRepo.ListBelowMinStock(organizationID)
}
