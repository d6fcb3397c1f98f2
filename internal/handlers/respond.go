package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
)

const msgInternal = "Error interno del servidor"

// requestContext bounds the store work of one request.
func requestContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), timeout)
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &models.ValidationError{Message: "Identificador inválido", Fields: map[string]string{name: "gt=0"}}
	}
	return uint(id), nil
}

// chain appends h to the route middleware mw.
func chain(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	return append(append(out, mw...), h)
}

// writeError maps service errors to status codes. notFound is the message used for models.ErrNotFound.
func writeError(c *fiber.Ctx, log *zap.Logger, err error, notFound string) error {
	var (
		validation *models.ValidationError
		stock      *models.InsufficientStockError
		transition *models.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		body := fiber.Map{"mensaje": validation.Message}
		if len(validation.Fields) > 0 {
			body["errores"] = validation.Fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensaje": stock.Error()})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"mensaje": notFound})
	case errors.Is(err, models.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"mensaje": "El registro ya existe"})
	case errors.As(err, &transition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"mensaje": "Cambio de estado no permitido"})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"mensaje": "Credenciales inválidas"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("Request timed out", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"mensaje": "Tiempo de espera agotado"})
	}

	log.Error("Request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"mensaje": msgInternal})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensaje": "Cuerpo de la solicitud inválido"})
}
