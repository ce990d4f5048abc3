package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
	"github.com/Act962/erp-limas-sub000/internal/domain/shipping"
)

// CheckoutUseCase coordina el armado de la venta y el libro de stock en
// una sola operación atómica: consecutivo, cabecera, líneas y movimientos
// SALE se escriben en la misma transacción o no se escribe nada.
type CheckoutUseCase struct {
	txRunner     TxRunner
	ledger       StockLedger
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
	}
}

// CommitSaleInput entrada del commit. Las cantidades vienen del carrito
// del cliente pero se revalidan contra el stock vivo dentro de la tx;
// los precios siempre salen del catálogo.
type CommitSaleInput struct {
	OrganizationID string
	ActorID        string
	Items          []CartItem
	Discount       decimal.Decimal
	DiscountType   string
	PaymentMethod  string
	DeliveryMethod string // opcional
	CustomerID     string // opcional
}

// PreviewResult totales calculados sin efectos secundarios, para mostrar
// antes del commit.
type PreviewResult struct {
	Subtotal              decimal.Decimal
	Freight               decimal.Decimal
	Total                 decimal.Decimal
	IsFreeShippingApplied bool
	IsFreightNegotiated   bool
}

// PreviewCheckoutTotals calcula subtotal, flete y total del carrito con la
// política de la organización. Solo lectura.
func (uc *CheckoutUseCase) PreviewCheckoutTotals(ctx context.Context, organizationID string, items []CartItem) (*PreviewResult, error) {
	settings, err := uc.loadSettings(organizationID)
	if err != nil {
		return nil, err
	}
	products, err := uc.loadProducts(organizationID, items)
	if err != nil {
		return nil, err
	}
	_, subtotal, weight, err := buildLines(products, items)
	if err != nil {
		return nil, err
	}
	quote, err := shipping.ComputeFreight(subtotal, weight, settings.Freight)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Subtotal:              subtotal,
		Freight:               quote.Amount,
		Total:                 subtotal.Add(quote.Amount),
		IsFreeShippingApplied: quote.FreeShipping,
		IsFreightNegotiated:   quote.Negotiated,
	}, nil
}

// CommitSale valida métodos de pago/entrega contra la configuración de la
// organización, arma los totales y ejecuta la transacción:
//  1. asigna el consecutivo de venta de la organización
//  2. persiste cabecera (CONFIRMED) y líneas
//  3. registra un movimiento SALE por cada línea con control de stock
//
// Cualquier falla aborta todo: no queda venta, línea ni movimiento.
func (uc *CheckoutUseCase) CommitSale(ctx context.Context, input CommitSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "el carrito está vacío"}
	}

	settings, err := uc.loadSettings(input.OrganizationID)
	if err != nil {
		return nil, err
	}
	if err := validateMethods(settings, input.PaymentMethod, input.DeliveryMethod); err != nil {
		return nil, err
	}

	products, err := uc.loadProducts(input.OrganizationID, input.Items)
	if err != nil {
		return nil, err
	}

	// Totales fuera de la tx (cálculo puro); el chequeo autoritativo de
	// stock ocurre adentro, con las filas bloqueadas.
	lines, subtotal, weight, err := buildLines(products, input.Items)
	if err != nil {
		return nil, err
	}
	quote, err := shipping.ComputeFreight(subtotal, weight, settings.Freight)
	if err != nil {
		return nil, err
	}
	build, err := settleTotals(lines, subtotal, weight, input.Discount, input.DiscountType, quote.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		OrganizationID: input.OrganizationID,
		Status:         entity.SaleStatusDraft,
		Subtotal:       build.Subtotal,
		Discount:       build.DiscountAmount,
		Freight:        build.Freight,
		Total:          build.Total,
		PaymentMethod:  input.PaymentMethod,
		DeliveryMethod: input.DeliveryMethod,
		CustomerID:     input.CustomerID,
		CreatedBy:      input.ActorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.RunCheckout(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Consecutivo por organización, en la misma tx que la cabecera
		// para que dos commits concurrentes nunca repitan número.
		number, err := saleRepo.NextSaleNumber(input.OrganizationID)
		if err != nil {
			return err
		}
		sale.SaleNumber = number
		sale.Status = entity.SaleStatusConfirmed

		items := make([]*entity.SaleItem, 0, len(build.Lines))
		for i, line := range build.Lines {
			items = append(items, &entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Discount:    line.Discount,
				Total:       line.Total,
				Position:    i,
			})
		}
		if err := saleRepo.Create(sale, items); err != nil {
			return err
		}

		// Un movimiento SALE por línea con control de stock; si alguna
		// línea no tiene stock el error revierte toda la venta.
		for _, line := range build.Lines {
			if !line.Product.TrackStock {
				continue
			}
			if err := uc.ledger.RecordSaleInTx(
				movRepo, productRepo,
				input.OrganizationID, input.ActorID,
				line.Product.ID, sale.ID,
				line.Quantity, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CompleteSale marca una venta CONFIRMED como COMPLETED (entregada/cobrada).
// El UPDATE es condicional al estado CONFIRMED: si otra petición movió el
// estado entre la lectura y la escritura, el repo devuelve ErrConflict en
// lugar de pisar la transición ajena.
func (uc *CheckoutUseCase) CompleteSale(ctx context.Context, organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.getOwnedSale(organizationID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusConfirmed {
		return nil, domain.ErrConflict
	}
	if err := uc.saleRepo.UpdateStatus(saleID, entity.SaleStatusCompleted, entity.SaleStatusConfirmed); err != nil {
		return nil, err
	}
	sale.Status = entity.SaleStatusCompleted
	return sale, nil
}

// CancelSale cancela una venta DRAFT o CONFIRMED. No genera movimientos
// de compensación; la reversión de ventas COMPLETED no está soportada.
// Igual que CompleteSale, la escritura es condicional al estado leído.
func (uc *CheckoutUseCase) CancelSale(ctx context.Context, organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.getOwnedSale(organizationID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusDraft && sale.Status != entity.SaleStatusConfirmed {
		return nil, domain.ErrConflict
	}
	if err := uc.saleRepo.UpdateStatus(saleID, entity.SaleStatusCancelled, entity.SaleStatusDraft, entity.SaleStatusConfirmed); err != nil {
		return nil, err
	}
	sale.Status = entity.SaleStatusCancelled
	return sale, nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *CheckoutUseCase) GetSale(ctx context.Context, organizationID, saleID string) (*entity.Sale, []*entity.SaleItem, error) {
	sale, err := uc.getOwnedSale(organizationID, saleID)
	if err != nil {
		return nil, nil, err
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

// ListSales lista ventas de la organización, filtrables por estado.
func (uc *CheckoutUseCase) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != "" {
		switch filter.Status {
		case entity.SaleStatusDraft, entity.SaleStatusConfirmed, entity.SaleStatusCompleted, entity.SaleStatusCancelled:
		default:
			return nil, &domain.ValidationError{Field: "status", Reason: "estado de venta desconocido"}
		}
	}
	return uc.saleRepo.List(filter)
}

func (uc *CheckoutUseCase) getOwnedSale(organizationID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &domain.NotFoundError{Entity: "sale", ID: saleID}
	}
	if sale.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func (uc *CheckoutUseCase) loadSettings(organizationID string) (*entity.OrganizationSettings, error) {
	settings, err := uc.settingsRepo.GetByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, &domain.NotFoundError{Entity: "organization_settings", ID: organizationID}
	}
	return settings, nil
}

// loadProducts resuelve los productos del carrito y verifica pertenencia
// a la organización. Solo lectura, fuera de la transacción.
func (uc *CheckoutUseCase) loadProducts(organizationID string, items []CartItem) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return nil, &domain.ValidationError{Field: "product_id", Reason: "ítem sin producto"}
		}
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, &domain.NotFoundError{Entity: "product", ID: item.ProductID}
		}
		if product.OrganizationID != organizationID {
			return nil, domain.ErrForbidden
		}
		products[item.ProductID] = product
	}
	return products, nil
}

// validateMethods valida método de pago (obligatorio) y de entrega
// (opcional) contra la enumeración cerrada y la lista habilitada por la
// organización.
func validateMethods(settings *entity.OrganizationSettings, payment, delivery string) error {
	validPayment := false
	for _, m := range entity.PaymentMethods {
		if m == payment {
			validPayment = true
			break
		}
	}
	if !validPayment {
		return &domain.ValidationError{Field: "payment_method", Reason: "método de pago desconocido"}
	}
	if !settings.PaymentAllowed(payment) {
		return &domain.ValidationError{Field: "payment_method", Reason: "método de pago no habilitado por la organización"}
	}
	if delivery == "" {
		return nil
	}
	validDelivery := false
	for _, m := range entity.DeliveryMethods {
		if m == delivery {
			validDelivery = true
			break
		}
	}
	if !validDelivery {
		return &domain.ValidationError{Field: "delivery_method", Reason: "método de entrega desconocido"}
	}
	if !settings.DeliveryAllowed(delivery) {
		return &domain.ValidationError{Field: "delivery_method", Reason: "método de entrega no habilitado por la organización"}
	}
	return nil
}
