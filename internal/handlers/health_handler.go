package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda/internal/database"
)

type HealthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthHandler(db *gorm.DB, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, 2*time.Second)
	defer cancel()

	status, dbState, code := "healthy", "connected", fiber.StatusOK
	if err := database.Ping(ctx, h.db); err != nil {
		h.log.Warn("Database ping failed", zap.Error(err))
		status, dbState, code = "degraded", "unreachable", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbState,
	})
}
