package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// StockOperationRequest entrada/salida simple de stock.
type StockOperationRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
}

// RegisterMovementRequest movimiento genérico. Para ADJUSTMENT enviar
// signed_delta (con signo) en lugar de quantity.
type RegisterMovementRequest struct {
	ProductID   string          `json:"product_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	SignedDelta decimal.Decimal `json:"signed_delta"`
	Note        string          `json:"note"`
}

// MovementResponse resultado de registrar un movimiento.
type MovementResponse struct {
	MovementID string          `json:"movement_id"`
	NewStock   decimal.Decimal `json:"new_stock"`
}

// MovementDTO fila del listado de movimientos (auditoría).
type MovementDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	SaleID        string          `json:"sale_id,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FromMovement mapea la entidad al DTO de respuesta.
func FromMovement(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		SaleID:        m.SaleID,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// ReplayResponse resultado del replay del libro para un producto.
type ReplayResponse struct {
	ProductID     string          `json:"product_id"`
	MovementCount int             `json:"movement_count"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	ReplayedStock decimal.Decimal `json:"replayed_stock"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ChainIntact   bool            `json:"chain_intact"`
	InSync        bool            `json:"in_sync"`
}

// LowStockProductDTO producto en o por debajo del stock mínimo.
type LowStockProductDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}
