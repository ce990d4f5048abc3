package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Act962/erp-limas-sub000/internal/application/checkout"
	"github.com/Act962/erp-limas-sub000/internal/application/inventory"
	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional: RunCheckout toma snapshot
// del store y lo restaura si fn falla, igual que el Rollback real. Con eso
// el test de atomicidad verifica que una venta a medias no deja rastro.
// ──────────────────────────────────────────────────────────────────────────────

const (
	ckOrgID   = "00000000-0000-0000-0000-0000000000aa"
	ckActorID = "00000000-0000-0000-0000-0000000000ab"
)

type ckStore struct {
	mu        sync.Mutex
	products  map[string]entity.Product
	movements []entity.StockMovement
	sales     map[string]entity.Sale
	saleItems map[string][]entity.SaleItem
	counters  map[string]int64
	settings  map[string]entity.OrganizationSettings

	// inyección de fallas para probar el rollback
	failMovementCreate error
	// gancho que corre una vez después de leer una venta fuera de tx,
	// para intercalar otra transición entre la lectura y la escritura
	afterSaleRead func()
}

func newCkStore() *ckStore {
	return &ckStore{
		products:  make(map[string]entity.Product),
		sales:     make(map[string]entity.Sale),
		saleItems: make(map[string][]entity.SaleItem),
		counters:  make(map[string]int64),
		settings:  make(map[string]entity.OrganizationSettings),
	}
}

func (s *ckStore) snapshot() *ckStore {
	cp := newCkStore()
	for k, v := range s.products {
		cp.products[k] = v
	}
	cp.movements = append(cp.movements, s.movements...)
	for k, v := range s.sales {
		cp.sales[k] = v
	}
	for k, v := range s.saleItems {
		items := make([]entity.SaleItem, len(v))
		copy(items, v)
		cp.saleItems[k] = items
	}
	for k, v := range s.counters {
		cp.counters[k] = v
	}
	return cp
}

func (s *ckStore) restore(snap *ckStore) {
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.counters = snap.counters
}

type ckProductRepo struct {
	s    *ckStore
	inTx bool
}

func (r *ckProductRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ckProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ckProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ckProductRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	p.CurrentStock = newStock
	r.s.products[id] = p
	return nil
}

func (r *ckProductRepo) ListBelowMinStock(orgID string) ([]*entity.Product, error) {
	return nil, nil
}

type ckMovementRepo struct {
	s    *ckStore
	inTx bool
}

func (r *ckMovementRepo) Create(m *entity.StockMovement) error {
	if r.s.failMovementCreate != nil {
		return r.s.failMovementCreate
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *ckMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }

func (r *ckMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *ckMovementRepo) ListByProductAsc(productID string) ([]*entity.StockMovement, error) {
	return nil, nil
}

type ckSaleRepo struct {
	s    *ckStore
	inTx bool
}

func (r *ckSaleRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *ckSaleRepo) Create(sale *entity.Sale, items []*entity.SaleItem) error {
	defer r.lock()()
	r.s.sales[sale.ID] = *sale
	stored := make([]entity.SaleItem, 0, len(items))
	for _, it := range items {
		stored = append(stored, *it)
	}
	r.s.saleItems[sale.ID] = stored
	return nil
}

func (r *ckSaleRepo) GetByID(id string) (*entity.Sale, error) {
	unlock := r.lock()
	sale, ok := r.s.sales[id]
	hook := r.s.afterSaleRead
	if hook != nil && !r.inTx {
		r.s.afterSaleRead = nil
	}
	unlock()
	if !ok {
		return nil, nil
	}
	if hook != nil && !r.inTx {
		hook()
	}
	return &sale, nil
}

func (r *ckSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	defer r.lock()()
	var out []*entity.SaleItem
	for _, it := range r.s.saleItems[saleID] {
		cp := it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ckSaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.lock()()
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != "" && sale.Status != filter.Status {
			continue
		}
		cp := sale
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ckSaleRepo) UpdateStatus(id, status string, fromStatuses ...string) error {
	defer r.lock()()
	sale, ok := r.s.sales[id]
	if !ok {
		return &domain.NotFoundError{Entity: "sale", ID: id}
	}
	if len(fromStatuses) > 0 {
		allowed := false
		for _, from := range fromStatuses {
			if sale.Status == from {
				allowed = true
				break
			}
		}
		if !allowed {
			return domain.ErrConflict
		}
	}
	sale.Status = status
	r.s.sales[id] = sale
	return nil
}

func (r *ckSaleRepo) NextSaleNumber(organizationID string) (int64, error) {
	defer r.lock()()
	r.s.counters[organizationID]++
	return r.s.counters[organizationID], nil
}

type ckSettingsRepo struct {
	s *ckStore
}

func (r *ckSettingsRepo) GetByOrganization(organizationID string) (*entity.OrganizationSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings, ok := r.s.settings[organizationID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (r *ckSettingsRepo) Upsert(settings *entity.OrganizationSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings[settings.OrganizationID] = *settings
	return nil
}

type ckTxRunner struct {
	s *ckStore
}

func (r *ckTxRunner) RunCheckout(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap := r.s.snapshot()
	err := fn(
		&ckMovementRepo{s: r.s, inTx: true},
		&ckProductRepo{s: r.s, inTx: true},
		&ckSaleRepo{s: r.s, inTx: true},
	)
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func newCheckout(s *ckStore) *checkout.CheckoutUseCase {
	// El ledger solo participa vía RecordSaleInTx, con los repos de la tx
	// del caller; sus dependencias propias no se usan.
	ledger := inventory.NewLedgerUseCase(nil, nil, nil)
	return checkout.NewCheckoutUseCase(
		&ckTxRunner{s: s},
		ledger,
		&ckProductRepo{s: s},
		&ckSaleRepo{s: s},
		&ckSettingsRepo{s: s},
	)
}

func seedSettings(s *ckStore, policy entity.FreightPolicy) {
	s.settings[ckOrgID] = entity.OrganizationSettings{
		OrganizationID:  ckOrgID,
		Freight:         policy,
		PaymentMethods:  []string{entity.PaymentMethodCash, entity.PaymentMethodPix},
		DeliveryMethods: []string{entity.DeliveryMethodPickup, entity.DeliveryMethodDelivery},
		UpdatedAt:       time.Now(),
	}
}

func seedProduct(s *ckStore, id, price, weight, stock string) {
	s.products[id] = entity.Product{
		ID:             id,
		OrganizationID: ckOrgID,
		SKU:            "SKU-" + id,
		Name:           "Producto " + id,
		Price:          dec(price),
		Weight:         dec(weight),
		CurrentStock:   dec(stock),
		TrackStock:     true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCommitSale_FlujoCompleto(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "5")
	uc := newCheckout(store)

	sale, err := uc.CommitSale(context.Background(), checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("2")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusConfirmed, sale.Status)
	assert.Equal(t, int64(1), sale.SaleNumber)
	assert.True(t, sale.Subtotal.Equal(dec("20")))
	assert.True(t, sale.Freight.IsZero())
	assert.True(t, sale.Total.Equal(dec("20")))

	// Quedaron la cabecera, una línea y un movimiento SALE; el stock bajó.
	require.Len(t, store.sales, 1)
	require.Len(t, store.saleItems[sale.ID], 1)
	item := store.saleItems[sale.ID][0]
	assert.Equal(t, "a", item.ProductID)
	assert.Equal(t, "Producto a", item.ProductName)
	assert.True(t, item.UnitPrice.Equal(dec("10")))

	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeSALE, mov.Type)
	assert.Equal(t, sale.ID, mov.SaleID)
	assert.True(t, mov.PreviousStock.Equal(dec("5")))
	assert.True(t, mov.NewStock.Equal(dec("3")))
	assert.True(t, store.products["a"].CurrentStock.Equal(dec("3")))
}

func TestCommitSale_ConsecutivoPorOrganizacion(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "50")
	uc := newCheckout(store)

	input := checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
		PaymentMethod:  entity.PaymentMethodCash,
	}
	first, err := uc.CommitSale(context.Background(), input)
	require.NoError(t, err)
	second, err := uc.CommitSale(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.SaleNumber)
	assert.Equal(t, int64(2), second.SaleNumber)
}

func TestCommitSale_StockInsuficienteNoDejaRastro(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "50")
	seedProduct(store, "b", "10", "0", "1")
	uc := newCheckout(store)

	_, err := uc.CommitSale(context.Background(), checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items: []checkout.CartItem{
			{ProductID: "a", Quantity: dec("2")},
			{ProductID: "b", Quantity: dec("5")},
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni venta, ni líneas, ni movimientos, ni stock tocado.
	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
	assert.True(t, store.products["a"].CurrentStock.Equal(dec("50")))
	assert.True(t, store.products["b"].CurrentStock.Equal(dec("1")))
}

func TestCommitSale_FallaEnTxRevierteTodo(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "50")
	store.failMovementCreate = errors.New("conexión perdida")
	uc := newCheckout(store)

	_, err := uc.CommitSale(context.Background(), checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("2")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.Error(t, err)

	// La cabecera ya se había escrito dentro de la tx: el rollback la borra
	// junto con el stock y el consecutivo.
	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
	assert.True(t, store.products["a"].CurrentStock.Equal(dec("50")))
	assert.Zero(t, store.counters[ckOrgID])
}

func TestCommitSale_MetodoDePagoInvalido(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "50")
	uc := newCheckout(store)

	base := checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
	}

	// Fuera de la enumeración.
	input := base
	input.PaymentMethod = "BITCOIN"
	_, err := uc.CommitSale(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Válido pero no habilitado por la organización.
	input = base
	input.PaymentMethod = entity.PaymentMethodCreditCard
	_, err = uc.CommitSale(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, store.sales)
}

func TestCommitSale_MetodoDeEntregaNoHabilitado(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "50")
	uc := newCheckout(store)

	_, err := uc.CommitSale(context.Background(), checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
		PaymentMethod:  entity.PaymentMethodCash,
		DeliveryMethod: entity.DeliveryMethodShipping,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommitSale_ConDescuentoYFlete(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{
		ChargeType: entity.FreightChargeFixed,
		FixedValue: dec("15"),
	})
	seedProduct(store, "a", "100", "1", "10")
	uc := newCheckout(store)

	sale, err := uc.CommitSale(context.Background(), checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("2")}},
		Discount:       dec("10"),
		DiscountType:   entity.DiscountTypePercent,
		PaymentMethod:  entity.PaymentMethodPix,
		DeliveryMethod: entity.DeliveryMethodDelivery,
	})
	require.NoError(t, err)

	assert.True(t, sale.Subtotal.Equal(dec("200")))
	assert.True(t, sale.Discount.Equal(dec("20")))
	assert.True(t, sale.Freight.Equal(dec("15")))
	assert.True(t, sale.Total.Equal(dec("195")))
}

func TestPreviewCheckoutTotals_EnvioGratisPorUmbral(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{
		ChargeType:            entity.FreightChargeFixed,
		FixedValue:            dec("12"),
		FreeShippingEnabled:   true,
		FreeShippingThreshold: dec("100"),
	})
	seedProduct(store, "a", "60", "1", "10")
	uc := newCheckout(store)

	preview, err := uc.PreviewCheckoutTotals(context.Background(), ckOrgID,
		[]checkout.CartItem{{ProductID: "a", Quantity: dec("2")}})
	require.NoError(t, err)

	assert.True(t, preview.Subtotal.Equal(dec("120")))
	assert.True(t, preview.Freight.IsZero())
	assert.True(t, preview.IsFreeShippingApplied)
	assert.False(t, preview.IsFreightNegotiated)

	// Sin efectos secundarios.
	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
	assert.True(t, store.products["a"].CurrentStock.Equal(dec("10")))
}

func TestPreviewCheckoutTotals_FleteNegociado(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNegotiateWhatsApp})
	seedProduct(store, "a", "10", "1", "10")
	uc := newCheckout(store)

	preview, err := uc.PreviewCheckoutTotals(context.Background(), ckOrgID,
		[]checkout.CartItem{{ProductID: "a", Quantity: dec("1")}})
	require.NoError(t, err)

	assert.True(t, preview.Freight.IsZero())
	assert.True(t, preview.IsFreightNegotiated)
	assert.False(t, preview.IsFreeShippingApplied)
}

func TestCompleteSale_Transiciones(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "10")
	uc := newCheckout(store)
	ctx := context.Background()

	sale, err := uc.CommitSale(ctx, checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	completed, err := uc.CompleteSale(ctx, ckOrgID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCompleted, completed.Status)

	// Completar dos veces o cancelar una completada es conflicto.
	_, err = uc.CompleteSale(ctx, ckOrgID, sale.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.CancelSale(ctx, ckOrgID, sale.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelSale_NoPisaVentaCompletadaEnParalelo(t *testing.T) {
	// Entre la lectura del estado y la escritura de la cancelación, otra
	// petición completa la venta. La escritura condicional debe detectar
	// el estado movido y devolver conflicto, nunca CANCELLED sobre COMPLETED.
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "10")
	uc := newCheckout(store)
	ctx := context.Background()

	sale, err := uc.CommitSale(ctx, checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	store.afterSaleRead = func() {
		_, err := uc.CompleteSale(ctx, ckOrgID, sale.ID)
		require.NoError(t, err)
	}

	_, err = uc.CancelSale(ctx, ckOrgID, sale.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.SaleStatusCompleted, store.sales[sale.ID].Status)
}

func TestCancelSale_NoCompensaStock(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "10")
	uc := newCheckout(store)
	ctx := context.Background()

	sale, err := uc.CommitSale(ctx, checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("3")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	cancelled, err := uc.CancelSale(ctx, ckOrgID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, cancelled.Status)

	// La cancelación no devuelve stock; eso se hace con un ENTRY manual.
	assert.True(t, store.products["a"].CurrentStock.Equal(dec("7")))
	assert.Len(t, store.movements, 1)
}

func TestGetSale_OtraOrganizacion(t *testing.T) {
	store := newCkStore()
	seedSettings(store, entity.FreightPolicy{Mode: entity.FreightModeNoShipping})
	seedProduct(store, "a", "10", "0", "10")
	uc := newCheckout(store)
	ctx := context.Background()

	sale, err := uc.CommitSale(ctx, checkout.CommitSaleInput{
		OrganizationID: ckOrgID,
		ActorID:        ckActorID,
		Items:          []checkout.CartItem{{ProductID: "a", Quantity: dec("1")}},
		PaymentMethod:  entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, _, err = uc.GetSale(ctx, "otra-org", sale.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListSales_EstadoDesconocido(t *testing.T) {
	store := newCkStore()
	uc := newCheckout(store)

	_, err := uc.ListSales(context.Background(), repository.SaleFilter{
		OrganizationID: ckOrgID,
		Status:         "PENDING",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
