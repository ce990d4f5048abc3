package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de envío de la organización.
const (
	FreightModeNegotiateWhatsApp = "NEGOTIATE_WHATSAPP" // se combina por WhatsApp
	FreightModeNegotiateFreight  = "NEGOTIATE_FREIGHT"  // se combina al entregar
	FreightModeFreeShipping      = "FREE_SHIPPING"
	FreightModeNoShipping        = "NO_SHIPPING" // solo retiro
)

// Tipos de cobro de flete cuando el modo cobra un valor.
const (
	FreightChargeFixed     = "FIXED"
	FreightChargePerWeight = "PER_WEIGHT"
)

// FreightPolicy es la política de flete de una organización.
// Un flete cero con modo NEGOTIATE_* o NO_SHIPPING significa "se resuelve
// fuera del sistema", no envío gratis; el Quote del calculador lo distingue.
type FreightPolicy struct {
	Mode                  string
	ChargeType            string
	FixedValue            decimal.Decimal
	PerWeightValue        decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FreeShippingEnabled   bool
}

// OrganizationSettings agrupa la política de flete y las listas de métodos
// de pago y entrega habilitados por la organización (una fila por org).
type OrganizationSettings struct {
	OrganizationID  string
	Freight         FreightPolicy
	PaymentMethods  []string
	DeliveryMethods []string
	WhatsAppContact string // número para modos negociados
	UpdatedAt       time.Time
}

// PaymentAllowed verifica si el método de pago está habilitado.
func (s *OrganizationSettings) PaymentAllowed(method string) bool {
	for _, m := range s.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// DeliveryAllowed verifica si el método de entrega está habilitado.
func (s *OrganizationSettings) DeliveryAllowed(method string) bool {
	for _, m := range s.DeliveryMethods {
		if m == method {
			return true
		}
	}
	return false
}
