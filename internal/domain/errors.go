package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidPolicy     = errors.New("política de envío mal configurada")
)

// NotFoundError indica qué entidad y qué ID no se encontró.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Entity, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError lleva el producto, lo solicitado y lo disponible.
// Se produce cuando una salida dejaría el stock negativo y el producto no lo permite.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("producto %s: solicitado %s, disponible %s: %v",
		e.ProductID, e.Requested, e.Available, ErrInsufficientStock)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError señala el campo inválido y la razón (carrito vacío,
// descuento fuera de rango, método de pago/entrega no permitido, etc.).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, ErrInvalidInput)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InvalidPolicyError indica una política de envío inconsistente
// (ej. PER_WEIGHT sin tarifa configurada).
type InvalidPolicyError struct {
	Reason string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Reason, ErrInvalidPolicy)
}

func (e *InvalidPolicyError) Unwrap() error { return ErrInvalidPolicy }
