package inventory

import (
	"context"

	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock:
// si fn retorna error no queda escrito ni el movimiento ni el stock.
// La implementación reintenta conflictos de serialización con backoff acotado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
