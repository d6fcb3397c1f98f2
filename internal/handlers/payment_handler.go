package handlers

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/payments"
	"tienda/internal/services"
)

// PaymentHandler serves the card checkout.
type PaymentHandler struct {
	service *services.CheckoutService
	log     *zap.Logger
	timeout time.Duration
}

func NewPaymentHandler(service *services.CheckoutService, log *zap.Logger, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
		timeout: timeout,
	}
}

func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/pagar", h.HandlePay)
}

// HandlePay charges the card and answers with {success, pago, pedido}.
func (h *PaymentHandler) HandlePay(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Faltan datos para procesar el pago."})
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	res, err := h.service.Checkout(ctx, req)
	if err != nil {
		var (
			declined   *payments.DeclinedError
			validation *models.ValidationError
			stock      *models.InsufficientStockError
		)
		switch {
		case errors.As(err, &declined):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": declined.Body})
		case errors.As(err, &validation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": validation.Message})
		case errors.As(err, &stock):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": stock.Error()})
		}
		h.log.Error("Error procesando pago", zap.Uint("user_id", req.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Error interno del servidor."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"pago":    res.Charge,
		"pedido": fiber.Map{
			"id":         res.OrderID,
			"id_usuario": req.UserID,
			"total":      req.Amount,
			"items":      req.Items,
		},
	})
}
