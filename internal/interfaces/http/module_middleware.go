package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cafecraft/internal/application/dto"
)

// moduleChecker contrato mínimo para verificar módulos; lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasModule(ctx context.Context, userID, module string) (bool, error)
}

// RequireModule verifica contra la DB que el usuario del token (activo) tenga acceso al módulo.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 MODULE_DISABLED → el rol o los permisos individuales no incluyen el módulo.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireModule(module string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		ok, err := checker.HasModule(c.UserContext(), userID, module)
		if err != nil {
			c.Locals(localError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "sin acceso al módulo '" + module + "'",
			})
		}
		return c.Next()
	}
}
