package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Act962/erp-limas-sub000/internal/application/checkout"
	"github.com/Act962/erp-limas-sub000/internal/application/inventory"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and checkout.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ checkout.TxRunner = (*TxRunner)(nil)

// Reintentos acotados para conflictos de serialización/deadlock.
// Las transacciones son cortas (filas del producto + movimiento + venta),
// así que pocos reintentos con backoff pequeño alcanzan.
const (
	txMaxAttempts = 3
	txBackoffBase = 25 * time.Millisecond
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL,
// reintentando conflictos transitorios antes de propagar el error.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Conflictos 40001/40P01 se reintentan con backoff.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewStockMovementRepository(tx)
		productRepo := NewProductRepository(tx)

		if err := fn(movRepo, productRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunCheckout inicia una transacción con los repos que necesita el commit
// de venta (movimientos, productos y ventas).
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewStockMovementRepository(tx)
		productRepo := NewProductRepository(tx)
		saleRepo := NewSaleRepository(tx)

		if err := fn(movRepo, productRepo, saleRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

func (r *TxRunner) withRetry(ctx context.Context, attempt func() error) error {
	var err error
	for i := 0; i < txMaxAttempts; i++ {
		err = attempt()
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(txBackoffBase << i):
		}
	}
	return err
}
