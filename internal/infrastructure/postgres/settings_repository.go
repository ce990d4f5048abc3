package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación del puerto SettingsRepository sobre
// PostgreSQL. Una fila por organización.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetByOrganization obtiene la configuración de la organización.
func (r *SettingsRepo) GetByOrganization(organizationID string) (*entity.OrganizationSettings, error) {
	query := `
		SELECT organization_id, freight_mode, freight_charge_type, fixed_value,
		       per_weight_value, free_shipping_threshold, free_shipping_enabled,
		       payment_methods, delivery_methods, whatsapp_contact, updated_at
		FROM organization_settings WHERE organization_id = $1`
	var s entity.OrganizationSettings
	var whatsapp *string
	err := r.q.QueryRow(context.Background(), query, organizationID).Scan(
		&s.OrganizationID, &s.Freight.Mode, &s.Freight.ChargeType, &s.Freight.FixedValue,
		&s.Freight.PerWeightValue, &s.Freight.FreeShippingThreshold, &s.Freight.FreeShippingEnabled,
		&s.PaymentMethods, &s.DeliveryMethods, &whatsapp, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization settings: %w", err)
	}
	if whatsapp != nil {
		s.WhatsAppContact = *whatsapp
	}
	return &s, nil
}

// Upsert inserta o actualiza la fila de configuración de la organización.
func (r *SettingsRepo) Upsert(settings *entity.OrganizationSettings) error {
	query := `
		INSERT INTO organization_settings (
			organization_id, freight_mode, freight_charge_type, fixed_value,
			per_weight_value, free_shipping_threshold, free_shipping_enabled,
			payment_methods, delivery_methods, whatsapp_contact, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (organization_id) DO UPDATE SET
			freight_mode = EXCLUDED.freight_mode,
			freight_charge_type = EXCLUDED.freight_charge_type,
			fixed_value = EXCLUDED.fixed_value,
			per_weight_value = EXCLUDED.per_weight_value,
			free_shipping_threshold = EXCLUDED.free_shipping_threshold,
			free_shipping_enabled = EXCLUDED.free_shipping_enabled,
			payment_methods = EXCLUDED.payment_methods,
			delivery_methods = EXCLUDED.delivery_methods,
			whatsapp_contact = EXCLUDED.whatsapp_contact,
			updated_at = EXCLUDED.updated_at`
	whatsapp := (*string)(nil)
	if settings.WhatsAppContact != "" {
		whatsapp = &settings.WhatsAppContact
	}
	_, err := r.q.Exec(context.Background(), query,
		settings.OrganizationID, settings.Freight.Mode, settings.Freight.ChargeType,
		settings.Freight.FixedValue, settings.Freight.PerWeightValue,
		settings.Freight.FreeShippingThreshold, settings.Freight.FreeShippingEnabled,
		settings.PaymentMethods, settings.DeliveryMethods, whatsapp, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert organization settings: %w", err)
	}
	return nil
}
