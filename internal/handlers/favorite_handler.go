package handlers

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/services"
)

type FavoriteHandler struct {
	service *services.FavoriteService
	log     *zap.Logger
	timeout time.Duration
}

func NewFavoriteHandler(service *services.FavoriteService, log *zap.Logger, timeout time.Duration) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		log:     log,
		timeout: timeout,
	}
}

func (h *FavoriteHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/favoritos", h.HandleAdd)
	router.Delete("/favoritos", h.HandleRemove)
	router.Get("/favoritos/esta/:id_usuario/:id_producto", h.HandleIsFavorite)
	router.Get("/favoritos/:id_usuario", h.HandleList)
}

func (h *FavoriteHandler) HandleAdd(c *fiber.Ctx) error {
	var fav models.Favorite
	if err := c.BodyParser(&fav); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.AddFavorite(ctx, fav); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensaje": "Ya está en favoritos"})
		}
		return writeError(c, h.log, err, "")
	}
	return c.JSON(fiber.Map{"mensaje": "Agregado a favoritos"})
}

func (h *FavoriteHandler) HandleList(c *fiber.Ctx) error {
	userID, err := paramID(c, "id_usuario")
	if err != nil {
		return writeError(c, h.log, err, "")
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	products, err := h.service.ListFavorites(ctx, userID)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(products)
}

func (h *FavoriteHandler) HandleIsFavorite(c *fiber.Ctx) error {
	userID, err := paramID(c, "id_usuario")
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	productID, err := paramID(c, "id_producto")
	if err != nil {
		return writeError(c, h.log, err, "")
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	ok, err := h.service.IsFavorite(ctx, userID, productID)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(fiber.Map{"esFavorito": ok})
}

func (h *FavoriteHandler) HandleRemove(c *fiber.Ctx) error {
	var fav models.Favorite
	if err := c.BodyParser(&fav); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.RemoveFavorite(ctx, fav); err != nil {
		return writeError(c, h.log, err, "No se encontró el favorito para eliminar")
	}
	return c.JSON(fiber.Map{"mensaje": "Eliminado de favoritos"})
}
