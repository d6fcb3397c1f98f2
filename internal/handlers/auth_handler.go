package handlers

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/services"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
	timeout     time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log *zap.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
		timeout:     timeout,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/registro", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if _, err := h.authService.RegisterUser(ctx, req); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"mensaje": "Este correo ya está registrado"})
		}
		return writeError(c, h.log, err, "")
	}

	return c.JSON(fiber.Map{"mensaje": "Usuario registrado con éxito"})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	token, user, err := h.authService.LoginUser(ctx, req)
	if err != nil {
		return writeError(c, h.log, err, "")
	}

	return c.JSON(fiber.Map{
		"mensaje": "Login exitoso",
		"usuario": user,
		"token":   token,
	})
}
