package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/services"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	msgOrderCreated      = "Pedido creado y stock actualizado"
	msgOrderNotFound     = "Pedido no encontrado"
)

// IdempotencyStore remembers which order a client request key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (orderID uint, ok bool, err error)
	Remember(ctx context.Context, key string, orderID uint) error
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	idem    IdempotencyStore
	log     *zap.Logger
	timeout time.Duration
}

// NewOrderHandler creates a new OrderHandler. idem may be nil.
func NewOrderHandler(service *services.OrderService, idem IdempotencyStore, log *zap.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		service: service,
		idem:    idem,
		log:     log,
		timeout: timeout,
	}
}

// RegisterRoutes registers the order routes. adminOnly guards the listing and status changes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, adminOnly ...fiber.Handler) {
	router.Post("/pedidos", h.HandleCreateOrder)
	router.Get("/pedidos", chain(adminOnly, h.HandleGetOrders)...)
	router.Get("/pedidos/:id_usuario", h.HandleGetUserOrders)
	router.Get("/pedido/:id", h.HandleGetOrderByID)
	router.Patch("/pedido/:id/estado", chain(adminOnly, h.HandleUpdateOrderStatus)...)
}

// HandleCreateOrder places an order and decrements stock in one transaction.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensaje": "Datos inválidos"})
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	key := c.Get(headerIdempotencyKey)
	if key != "" && h.idem != nil {
		orderID, ok, err := h.idem.Lookup(ctx, key)
		if err != nil {
			h.log.Warn("Idempotency lookup failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return c.JSON(fiber.Map{"mensaje": msgOrderCreated, "id_pedido": orderID})
		}
	}

	orderID, err := h.service.PlaceOrder(ctx, req)
	if err != nil {
		return writeError(c, h.log, err, "")
	}

	if key != "" && h.idem != nil {
		if err := h.idem.Remember(ctx, key, orderID); err != nil {
			h.log.Warn("Failed to remember idempotency key", zap.String("key", key), zap.Uint("order_id", orderID), zap.Error(err))
		}
	}

	return c.JSON(fiber.Map{"mensaje": msgOrderCreated, "id_pedido": orderID})
}

// HandleGetOrders retrieves all orders with their customer names.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	orders, err := h.service.ListAllOrders(ctx)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(orders)
}

// HandleGetUserOrders retrieves the orders of one user, newest first.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	userID, err := paramID(c, "id_usuario")
	if err != nil {
		return writeError(c, h.log, err, "")
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	orders, err := h.service.ListUserOrders(ctx, userID)
	if err != nil {
		return writeError(c, h.log, err, "")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order with its lines.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgOrderNotFound)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	detail, err := h.service.GetOrderDetail(ctx, id)
	if err != nil {
		return writeError(c, h.log, err, msgOrderNotFound)
	}
	return c.JSON(detail)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err, msgOrderNotFound)
	}
	var body struct {
		Status models.OrderStatus `json:"estado"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.service.UpdateOrderStatus(ctx, id, body.Status); err != nil {
		return writeError(c, h.log, err, msgOrderNotFound)
	}
	return c.JSON(fiber.Map{"mensaje": "Estado del pedido actualizado", "estado": body.Status})
}
