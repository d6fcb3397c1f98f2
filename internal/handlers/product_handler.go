package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/services"
)

const msgProductNotFound = "Producto no encontrado"

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
	timeout time.Duration
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
		timeout: timeout,
	}
}

// RegisterRoutes registers the catalog routes. adminOnly guards the writes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminOnly ...fiber.Handler) {
	router.Get("/productos", h.HandleGetProducts)
	router.Get("/producto/:id", h.HandleGetProductByID)
	router.Get("/stock/:id_producto", h.HandleGetStock)
	router.Post("/productos", chain(adminOnly, h.HandleCreateProduct)...)
	router.Put("/productos/:id", chain(adminOnly, h.HandleUpdateProduct)...)
	router.Delete("/productos/:id", chain(adminOnly, h.HandleDeleteProduct)...)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	products, err := h.service.GetAllProducts(ctx)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(fiber.Map{"productos": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	product, err := h.service.GetProductByID(ctx, id)
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(product)
}

// HandleGetStock returns {id, stock} for a product.
func (h *ProductHandler) HandleGetStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id_producto")
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	stock, err := h.service.GetStock(ctx, id)
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(stock)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c)
	}
	product.ID = 0

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.CreateProduct(ctx, &product); err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"mensaje": "Producto agregado correctamente",
		"id":      product.ID,
	})
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c)
	}
	product.ID = id

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.UpdateProduct(ctx, &product); err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(fiber.Map{"mensaje": "Producto actualizado correctamente"})
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.DeleteProduct(ctx, id); err != nil {
		return writeError(c, h.log, err, msgProductNotFound)
	}
	return c.JSON(fiber.Map{"mensaje": "Producto eliminado correctamente"})
}
