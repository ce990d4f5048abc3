package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la venta. Las transiciones solo avanzan:
// DRAFT -> CONFIRMED -> COMPLETED; CANCELLED es alcanzable desde DRAFT o CONFIRMED.
const (
	SaleStatusDraft     = "DRAFT"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Métodos de pago aceptados por el sistema; cada organización habilita
// un subconjunto en su configuración.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodPix          = "PIX"
	PaymentMethodCreditCard   = "CREDIT_CARD"
	PaymentMethodDebitCard    = "DEBIT_CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// PaymentMethods lista los métodos de pago conocidos.
var PaymentMethods = []string{
	PaymentMethodCash, PaymentMethodPix, PaymentMethodCreditCard,
	PaymentMethodDebitCard, PaymentMethodBankTransfer,
}

// Métodos de entrega; igual que pago, la organización habilita un subconjunto.
const (
	DeliveryMethodPickup   = "PICKUP"
	DeliveryMethodDelivery = "DELIVERY"
	DeliveryMethodShipping = "SHIPPING"
)

// DeliveryMethods lista los métodos de entrega conocidos.
var DeliveryMethods = []string{
	DeliveryMethodPickup, DeliveryMethodDelivery, DeliveryMethodShipping,
}

// Tipos de descuento sobre la venta.
const (
	DiscountTypePercent = "PERCENT" // porcentaje sobre el subtotal, [0,100]
	DiscountTypeValue   = "VALUE"   // monto fijo, [0, subtotal+flete]
)

// Sale es la cabecera de una venta. SaleNumber es consecutivo por
// organización y se asigna dentro de la transacción de commit.
// Invariante: Total = max(0, Subtotal - Discount + Freight).
type Sale struct {
	ID             string
	OrganizationID string
	SaleNumber     int64
	Status         string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal // monto ya resuelto (no porcentaje)
	Freight        decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	DeliveryMethod string
	CustomerID     string // opcional
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleItem es una línea de venta. ProductName es snapshot al momento de
// vender; Position conserva el orden de inserción del carrito.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Position    int
}
