package services

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/payments"
)

const msgMissingPaymentData = "Faltan datos para procesar el pago."

// ChargeGateway creates card charges.
type ChargeGateway interface {
	Charge(ctx context.Context, charge payments.ChargeRequest) (json.RawMessage, error)
}

// CheckoutRequest is the body of POST /pagar.
type CheckoutRequest struct {
	Token  string                    `json:"token"`
	Amount decimal.Decimal           `json:"monto"`
	Email  string                    `json:"email"`
	UserID uint                      `json:"id_usuario"`
	Items  []models.OrderItemRequest `json:"items"`
}

// CheckoutResult is returned once the charge went through.
type CheckoutResult struct {
	Charge  json.RawMessage `json:"pago"`
	OrderID uint            `json:"id_pedido"`
}

// CheckoutService reserves stock through an order, charges the card and
// then confirms the order, or cancels it when the charge fails.
type CheckoutService struct {
	orders   *OrderService
	gateway  ChargeGateway
	currency string
	log      *zap.Logger
}

func NewCheckoutService(orders *OrderService, gateway ChargeGateway, currency string, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		gateway:  gateway,
		currency: currency,
		log:      log,
	}
}

// Checkout runs the payment. A declined charge yields *payments.DeclinedError
// after the order was cancelled and its stock returned.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.Token == "" || req.Email == "" || !req.Amount.IsPositive() || req.UserID == 0 || len(req.Items) == 0 {
		return nil, &models.ValidationError{Message: msgMissingPaymentData}
	}

	orderID, err := s.orders.PlaceOrder(ctx, models.PlaceOrderRequest{
		UserID: req.UserID,
		Total:  req.Amount,
		Items:  req.Items,
	})
	if err != nil {
		return nil, err
	}

	// Settled even when the request context ends after the charge.
	settle := context.WithoutCancel(ctx)

	charge, err := s.gateway.Charge(ctx, payments.ChargeRequest{
		Amount:       req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		CurrencyCode: s.currency,
		Email:        req.Email,
		SourceID:     req.Token,
	})
	if err != nil {
		s.log.Warn("Charge failed, cancelling order", zap.Uint("order_id", orderID), zap.Error(err))
		if cancelErr := s.orders.UpdateOrderStatus(settle, orderID, models.OrderStatusCancelled); cancelErr != nil {
			s.log.Error("Failed to cancel unpaid order", zap.Uint("order_id", orderID), zap.Error(cancelErr))
		}
		return nil, errors.Wrap(err, "charge")
	}

	if err := s.orders.UpdateOrderStatus(settle, orderID, models.OrderStatusConfirmed); err != nil {
		s.log.Error("Charge succeeded but order stayed pending", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, err
	}
	return &CheckoutResult{Charge: charge, OrderID: orderID}, nil
}
