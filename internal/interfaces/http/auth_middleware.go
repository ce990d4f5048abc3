package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Act962/erp-limas-sub000/internal/application/dto"
	"github.com/Act962/erp-limas-sub000/pkg/jwt"
)

// Locals keys para ActorID y OrganizationID en Fiber.
const (
	LocalActorID        = "actor_id"
	LocalOrganizationID = "organization_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae ActorID y
// OrganizationID a c.Locals. El motor consume ese contexto; la emisión
// del token vive fuera de este servicio.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		actorID, organizationID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalActorID, actorID)
		c.Locals(LocalOrganizationID, organizationID)
		return c.Next()
	}
}

// GetActorID devuelve el ActorID del contexto (después del middleware de auth).
func GetActorID(c *fiber.Ctx) string {
	v := c.Locals(LocalActorID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetOrganizationID devuelve el OrganizationID del contexto (después del middleware de auth).
func GetOrganizationID(c *fiber.Ctx) string {
	v := c.Locals(LocalOrganizationID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
