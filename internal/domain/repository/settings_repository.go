package repository

import (
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// SettingsRepository define el puerto de la configuración por organización
// (política de flete y listas de métodos de pago/entrega habilitados).
type SettingsRepository interface {
	GetByOrganization(organizationID string) (*entity.OrganizationSettings, error)
	Upsert(settings *entity.OrganizationSettings) error
}
