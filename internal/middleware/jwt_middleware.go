package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/services"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalEmail  = "correo"
	LocalRole   = "rol"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"mensaje": "Se requiere el encabezado Authorization",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"mensaje": "El encabezado Authorization debe tener el formato 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"mensaje": "Token inválido o expirado",
			})
		}

		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalEmail, claims["correo"])
		c.Locals(LocalRole, claims["rol"])

		return c.Next()
	}
}

// RequireRole rejects requests whose token does not carry role. It must run after AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got, _ := c.Locals(LocalRole).(string); got != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"mensaje": "No tiene permisos para esta operación",
			})
		}
		return c.Next()
	}
}
