package repository

import (
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas.
type SaleFilter struct {
	OrganizationID string
	Status         string
	Limit          int
	Offset         int
}

// SaleRepository define el puerto de persistencia de ventas.
// NextSaleNumber asigna el consecutivo por organización de forma atómica;
// debe llamarse dentro de la misma transacción que Create para que dos
// commits concurrentes nunca colisionen.
// UpdateStatus es condicional: solo escribe si el estado actual está en
// fromStatuses, y devuelve ErrConflict si la fila no cambió. Así dos
// transiciones concurrentes nunca pisan un estado que ya avanzó.
type SaleRepository interface {
	Create(sale *entity.Sale, items []*entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	List(filter SaleFilter) ([]*entity.Sale, error)
	UpdateStatus(id, status string, fromStatuses ...string) error
	NextSaleNumber(organizationID string) (int64, error)
}
