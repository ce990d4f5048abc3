package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// Quote es el resultado del cálculo de flete. Negotiated distingue el
// cero "gratis de verdad" del cero "se combina fuera del sistema"
// (WhatsApp o retiro), que la UI debe mostrar distinto.
type Quote struct {
	Amount       decimal.Decimal
	FreeShipping bool
	Negotiated   bool
}

// ComputeFreight evalúa la política de flete de la organización.
// Orden de evaluación (gana la primera regla que aplique):
//  1. envío gratis por umbral de subtotal
//  2. modo FREE_SHIPPING
//  3. modos negociados / sin envío -> cero marcado Negotiated
//  4. cobro FIXED
//  5. cobro PER_WEIGHT (tarifa por peso total)
//  6. sin regla -> cero
//
// Función pura, determinista, sin I/O.
func ComputeFreight(subtotal, totalWeight decimal.Decimal, policy entity.FreightPolicy) (Quote, error) {
	if policy.FreeShippingEnabled && subtotal.GreaterThanOrEqual(policy.FreeShippingThreshold) {
		return Quote{Amount: decimal.Zero, FreeShipping: true}, nil
	}
	switch policy.Mode {
	case entity.FreightModeFreeShipping:
		return Quote{Amount: decimal.Zero, FreeShipping: true}, nil
	case entity.FreightModeNoShipping, entity.FreightModeNegotiateWhatsApp, entity.FreightModeNegotiateFreight:
		return Quote{Amount: decimal.Zero, Negotiated: true}, nil
	}
	switch policy.ChargeType {
	case entity.FreightChargeFixed:
		return Quote{Amount: policy.FixedValue}, nil
	case entity.FreightChargePerWeight:
		if !policy.PerWeightValue.IsPositive() {
			return Quote{}, &domain.InvalidPolicyError{Reason: "PER_WEIGHT sin tarifa por peso configurada"}
		}
		return Quote{Amount: policy.PerWeightValue.Mul(totalWeight)}, nil
	}
	return Quote{Amount: decimal.Zero}, nil
}
