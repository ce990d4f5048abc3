package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// Direction devuelve el signo del tipo de movimiento: +1 entrada, -1 salida.
// ADJUSTMENT devuelve 0 porque su dirección viene en el delta firmado del
// caller, nunca inferida del tipo.
func Direction(movementType string) int {
	switch movementType {
	case entity.MovementTypeENTRY, entity.MovementTypePURCHASE:
		return 1
	case entity.MovementTypeEXIT, entity.MovementTypeSALE, entity.MovementTypeLOSS:
		return -1
	}
	return 0
}

// ComputeNewStock calcula el stock resultante de aplicar un movimiento
// (servicio de dominio puro, sin I/O). magnitude debe ser >= 0; el signo
// lo aporta el tipo. Para ADJUSTMENT usar ComputeAdjustment.
// Retorna InsufficientStockError si la salida dejaría el stock negativo
// y el producto no permite negativos.
func ComputeNewStock(productID string, current decimal.Decimal, movementType string, magnitude decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	if magnitude.IsNegative() {
		return decimal.Zero, &domain.ValidationError{Field: "quantity", Reason: "la magnitud no puede ser negativa"}
	}
	dir := Direction(movementType)
	if dir == 0 {
		return decimal.Zero, &domain.ValidationError{Field: "type", Reason: "tipo de movimiento sin dirección implícita"}
	}
	var next decimal.Decimal
	if dir > 0 {
		next = current.Add(magnitude)
	} else {
		next = current.Sub(magnitude)
	}
	if next.IsNegative() && !allowNegative {
		return decimal.Zero, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: magnitude,
			Available: current,
		}
	}
	return next, nil
}

// ComputeAdjustment aplica un delta firmado explícito (tipo ADJUSTMENT).
// El mismo chequeo de negativos aplica cuando el delta resta.
func ComputeAdjustment(productID string, current, signedDelta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	if signedDelta.IsZero() {
		return decimal.Zero, &domain.ValidationError{Field: "signed_delta", Reason: "el ajuste no puede ser cero"}
	}
	next := current.Add(signedDelta)
	if next.IsNegative() && !allowNegative {
		return decimal.Zero, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: signedDelta.Abs(),
			Available: current,
		}
	}
	return next, nil
}
