package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// TxRunner ejecuta el commit de una venta dentro de una transacción de BD
// con los repositorios atados a esa tx. Si fn retorna error no queda
// escrita la venta, ni sus líneas, ni ningún movimiento de stock.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// StockLedger es el puerto hacia el libro de stock para registrar la
// salida SALE de cada línea dentro de la transacción del commit.
// Lo implementa inventory.LedgerUseCase.
type StockLedger interface {
	RecordSaleInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		organizationID, actorID, productID, saleID string,
		quantity decimal.Decimal,
		now time.Time,
	) error
}
