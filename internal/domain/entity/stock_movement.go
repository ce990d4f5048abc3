package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock (enumeración cerrada, validada en el borde).
const (
	MovementTypeENTRY      = "ENTRY"      // entrada manual
	MovementTypeEXIT       = "EXIT"       // salida manual
	MovementTypeSALE       = "SALE"       // salida por venta confirmada
	MovementTypePURCHASE   = "PURCHASE"   // entrada por compra
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste con delta firmado explícito
	MovementTypeLOSS       = "LOSS"       // merma, rotura, vencimiento
)

// MovementTypes lista los tipos válidos, para validación en handlers.
var MovementTypes = []string{
	MovementTypeENTRY, MovementTypeEXIT, MovementTypeSALE,
	MovementTypePURCHASE, MovementTypeADJUSTMENT, MovementTypeLOSS,
}

// ValidMovementType verifica que el tipo pertenezca a la enumeración.
func ValidMovementType(t string) bool {
	for _, v := range MovementTypes {
		if v == t {
			return true
		}
	}
	return false
}

// StockMovement es un registro inmutable del libro de stock (append-only).
// Quantity es la magnitud sin signo; el signo lo determina el tipo, salvo
// en ADJUSTMENT donde el delta se conserva en NewStock-PreviousStock.
// La cadena PreviousStock/NewStock permite reconstruir el stock por replay.
type StockMovement struct {
	ID             string
	OrganizationID string
	ProductID      string
	Type           string
	Quantity       decimal.Decimal // magnitud, siempre >= 0
	PreviousStock  decimal.Decimal
	NewStock       decimal.Decimal
	SaleID         string // venta asociada en movimientos SALE, vacío en el resto
	Note           string
	CreatedBy      string // actor que originó el movimiento
	CreatedAt      time.Time
}

// SignedDelta devuelve el cambio neto del movimiento (NewStock - PreviousStock).
// Es la cantidad firmada que se pliega en el replay del libro.
func (m *StockMovement) SignedDelta() decimal.Decimal {
	return m.NewStock.Sub(m.PreviousStock)
}
