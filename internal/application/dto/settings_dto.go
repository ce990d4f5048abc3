package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// SettingsRequest configuración de flete y métodos habilitados.
type SettingsRequest struct {
	FreightMode           string          `json:"freight_mode"`
	FreightChargeType     string          `json:"freight_charge_type"`
	FixedValue            decimal.Decimal `json:"fixed_value"`
	PerWeightValue        decimal.Decimal `json:"per_weight_value"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FreeShippingEnabled   bool            `json:"free_shipping_enabled"`
	PaymentMethods        []string        `json:"payment_methods"`
	DeliveryMethods       []string        `json:"delivery_methods"`
	WhatsAppContact       string          `json:"whatsapp_contact"`
}

// SettingsResponse configuración vigente de la organización.
type SettingsResponse struct {
	OrganizationID        string          `json:"organization_id"`
	FreightMode           string          `json:"freight_mode"`
	FreightChargeType     string          `json:"freight_charge_type"`
	FixedValue            decimal.Decimal `json:"fixed_value"`
	PerWeightValue        decimal.Decimal `json:"per_weight_value"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FreeShippingEnabled   bool            `json:"free_shipping_enabled"`
	PaymentMethods        []string        `json:"payment_methods"`
	DeliveryMethods       []string        `json:"delivery_methods"`
	WhatsAppContact       string          `json:"whatsapp_contact,omitempty"`
}

// FromSettings mapea la entidad a la respuesta.
func FromSettings(s *entity.OrganizationSettings) SettingsResponse {
	return SettingsResponse{
		OrganizationID:        s.OrganizationID,
		FreightMode:           s.Freight.Mode,
		FreightChargeType:     s.Freight.ChargeType,
		FixedValue:            s.Freight.FixedValue,
		PerWeightValue:        s.Freight.PerWeightValue,
		FreeShippingThreshold: s.Freight.FreeShippingThreshold,
		FreeShippingEnabled:   s.Freight.FreeShippingEnabled,
		PaymentMethods:        s.PaymentMethods,
		DeliveryMethods:       s.DeliveryMethods,
		WhatsAppContact:       s.WhatsAppContact,
	}
}
