package catalog

import (
	"context"
	"time"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

// SettingsUseCase administra la configuración por organización que
// consume el checkout: política de flete y métodos habilitados.
type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingsRepo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo}
}

// GetSettings devuelve la configuración vigente de la organización.
func (uc *SettingsUseCase) GetSettings(ctx context.Context, organizationID string) (*entity.OrganizationSettings, error) {
	settings, err := uc.settingsRepo.GetByOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, &domain.NotFoundError{Entity: "organization_settings", ID: organizationID}
	}
	return settings, nil
}

// UpdateSettings valida las enumeraciones en el borde y guarda la fila
// de la organización (una por org, upsert).
func (uc *SettingsUseCase) UpdateSettings(ctx context.Context, settings *entity.OrganizationSettings) (*entity.OrganizationSettings, error) {
	if settings.OrganizationID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch settings.Freight.Mode {
	case entity.FreightModeNegotiateWhatsApp, entity.FreightModeNegotiateFreight,
		entity.FreightModeFreeShipping, entity.FreightModeNoShipping:
	default:
		return nil, &domain.ValidationError{Field: "freight_mode", Reason: "modo de envío desconocido"}
	}
	switch settings.Freight.ChargeType {
	case "", entity.FreightChargeFixed, entity.FreightChargePerWeight:
	default:
		return nil, &domain.ValidationError{Field: "freight_charge_type", Reason: "tipo de cobro desconocido"}
	}
	if settings.Freight.ChargeType == entity.FreightChargePerWeight && !settings.Freight.PerWeightValue.IsPositive() {
		return nil, &domain.InvalidPolicyError{Reason: "PER_WEIGHT sin tarifa por peso configurada"}
	}
	for _, m := range settings.PaymentMethods {
		if !contains(entity.PaymentMethods, m) {
			return nil, &domain.ValidationError{Field: "payment_methods", Reason: "método de pago desconocido: " + m}
		}
	}
	for _, m := range settings.DeliveryMethods {
		if !contains(entity.DeliveryMethods, m) {
			return nil, &domain.ValidationError{Field: "delivery_methods", Reason: "método de entrega desconocido: " + m}
		}
	}
	settings.UpdatedAt = time.Now()
	if err := uc.settingsRepo.Upsert(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
