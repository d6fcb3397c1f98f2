package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/services"
)

const msgUserNotFound = "Usuario no encontrado"

// UserHandler serves profiles and the admin user listing.
type UserHandler struct {
	service *services.UserService
	log     *zap.Logger
	timeout time.Duration
}

func NewUserHandler(service *services.UserService, log *zap.Logger, timeout time.Duration) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
		timeout: timeout,
	}
}

// RegisterRoutes registers the user routes. adminOnly guards the listing.
func (h *UserHandler) RegisterRoutes(router fiber.Router, adminOnly ...fiber.Handler) {
	router.Get("/usuario/:id", h.HandleGetProfile)
	router.Put("/usuario/:id", h.HandleUpdateProfile)
	router.Get("/usuarios", chain(adminOnly, h.HandleListUsers)...)
}

func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgUserNotFound)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	user, err := h.service.GetProfile(ctx, id)
	if err != nil {
		return writeError(c, h.log, err, msgUserNotFound)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgUserNotFound)
	}
	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.UpdateProfile(ctx, id, profile); err != nil {
		return writeError(c, h.log, err, msgUserNotFound)
	}
	return c.JSON(fiber.Map{"mensaje": "Perfil actualizado con éxito"})
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	users, err := h.service.ListUsers(ctx)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(fiber.Map{"usuarios": users})
}
