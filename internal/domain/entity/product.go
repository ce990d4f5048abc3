package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con sus campos de stock.
// CurrentStock se muta únicamente dentro de la misma transacción que crea
// el movimiento correspondiente (ver StockMovement).
type Product struct {
	ID             string
	OrganizationID string
	SKU            string // código único por organización
	Name           string
	Price          decimal.Decimal // precio de venta unitario
	Weight         decimal.Decimal // peso unitario, para flete PER_WEIGHT
	CurrentStock   decimal.Decimal
	MinStock       decimal.Decimal
	TrackStock     bool // si es false, el producto no genera movimientos
	AllowNegative  bool // permite stock negativo (ventas bajo pedido)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
