package repository

import (
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos (vista de auditoría).
type MovementFilter struct {
	OrganizationID string
	ProductIDs     []string
	ActorIDs       []string
	Type           string
	Limit          int
	Offset         int
}

// StockMovementRepository define el puerto de persistencia del libro de
// movimientos. Create es append-only: nunca hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List devuelve movimientos ordenados por created_at DESC, paginados.
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	// ListByProductAsc devuelve todos los movimientos de un producto en
	// orden cronológico, para el replay del libro.
	ListByProductAsc(productID string) ([]*entity.StockMovement, error)
}
