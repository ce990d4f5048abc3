package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Act962/erp-limas-sub000/internal/application/dto"
	"github.com/Act962/erp-limas-sub000/internal/domain"
)

// writeError mapea errores de dominio a códigos HTTP. Los errores
// tipados conservan su payload en el mensaje.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidPolicy):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_POLICY", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// queryAll devuelve todas las ocurrencias de un parámetro query repetible
// (?product_id=a&product_id=b), descartando valores vacíos.
func queryAll(c *fiber.Ctx, key string) []string {
	var values []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if len(v) > 0 {
			values = append(values, string(v))
		}
	}
	return values
}

// requireAuthContext devuelve organización y actor del contexto, o un
// error 401 ya escrito si faltan.
func requireAuthContext(c *fiber.Ctx) (organizationID, actorID string, ok bool) {
	organizationID = GetOrganizationID(c)
	actorID = GetActorID(c)
	if organizationID == "" || actorID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", "", false
	}
	return organizationID, actorID, true
}
