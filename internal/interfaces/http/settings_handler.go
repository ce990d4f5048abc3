package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Act962/erp-limas-sub000/internal/application/catalog"
	"github.com/Act962/erp-limas-sub000/internal/application/dto"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// SettingsHandler maneja la configuración de flete y métodos por organización.
type SettingsHandler struct {
	uc *catalog.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *catalog.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetSettings godoc
// @Summary      Configuración vigente de la organización
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	settings, err := h.uc.GetSettings(c.Context(), organizationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSettings(settings))
}

// UpdateSettings godoc
// @Summary      Actualizar configuración de flete y métodos habilitados
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "política de flete, métodos de pago/entrega"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	organizationID, _, ok := requireAuthContext(c)
	if !ok {
		return nil
	}
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	settings, err := h.uc.UpdateSettings(c.Context(), &entity.OrganizationSettings{
		OrganizationID: organizationID,
		Freight: entity.FreightPolicy{
			Mode:                  in.FreightMode,
			ChargeType:            in.FreightChargeType,
			FixedValue:            in.FixedValue,
			PerWeightValue:        in.PerWeightValue,
			FreeShippingThreshold: in.FreeShippingThreshold,
			FreeShippingEnabled:   in.FreeShippingEnabled,
		},
		PaymentMethods:  in.PaymentMethods,
		DeliveryMethods: in.DeliveryMethods,
		WhatsAppContact: in.WhatsAppContact,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSettings(settings))
}
