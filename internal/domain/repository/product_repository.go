package repository

import (
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos (DIP).
// El alta y edición del catálogo viven en otro servicio; el motor solo
// lee productos y escribe su stock.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y solo tiene sentido
// dentro de una transacción.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, newStock decimal.Decimal) error
	ListBelowMinStock(organizationID string) ([]*entity.Product, error)
}
