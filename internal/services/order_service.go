package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// allowedFrom lists, per target status, the statuses an order may leave to reach it.
var allowedFrom = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusConfirmed: {models.OrderStatusPending},
	models.OrderStatusCancelled: {models.OrderStatusPending, models.OrderStatusConfirmed},
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
	validate    *validator.Validate
	log         *zap.Logger
	strictTotal bool
}

// OrderServiceOption configures optional OrderService behaviour.
type OrderServiceOption func(*OrderService)

// WithPublisher publishes order events after every committed change.
func WithPublisher(p EventPublisher) OrderServiceOption {
	return func(s *OrderService) { s.publisher = p }
}

// WithStrictTotal rejects orders whose declared total differs from the sum of their lines.
func WithStrictTotal(strict bool) OrderServiceOption {
	return func(s *OrderService) { s.strictTotal = strict }
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, log *zap.Logger, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orderRepo: orderRepo,
		validate:  validator.New(),
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the request and then stores the order, its lines and
// the stock decrements as one unit. It returns the new order id, or one of
// *models.ValidationError, *models.InsufficientStockError, *models.StorageError.
func (s *OrderService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (uint, error) {
	if err := s.checkOrder(req); err != nil {
		return 0, err
	}

	order := &models.Order{
		UserID: req.UserID,
		Total:  req.Total,
		Status: models.OrderStatusPending,
		Lines:  make([]models.OrderLine, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.orderRepo.Place(ctx, order); err != nil {
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.log.Info("Order rejected for insufficient stock",
				zap.Uint("user_id", req.UserID),
				zap.Uint("product_id", stockErr.ProductID),
			)
			return 0, stockErr
		}
		s.log.Error("Order placement rolled back",
			zap.String("op", "place_order"),
			zap.Uint("order_id", order.ID),
			zap.Uint("user_id", req.UserID),
			zap.Error(err),
		)
		return 0, &models.StorageError{Op: "place order", OrderID: order.ID, Err: err}
	}

	total := order.Total
	s.publish(OrderEvent{
		Type:    EventOrderCreated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   &total,
		Items:   req.Items,
	})
	return order.ID, nil
}

func (s *OrderService) checkOrder(req models.PlaceOrderRequest) error {
	if err := checkStruct(s.validate, req, msgInvalidData); err != nil {
		return err
	}
	if req.Total.IsNegative() {
		return &models.ValidationError{Message: msgInvalidData, Fields: map[string]string{"total": "gte=0"}}
	}

	sum := decimal.Zero
	for i, item := range req.Items {
		if item.UnitPrice.IsNegative() {
			return &models.ValidationError{
				Message: msgInvalidData,
				Fields:  map[string]string{fmt.Sprintf("items[%d].precio_unitario", i): "gte=0"},
			}
		}
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if sum.Round(2).Equal(req.Total.Round(2)) {
		return nil
	}
	if s.strictTotal {
		return &models.ValidationError{Message: "El total no coincide con el detalle del pedido"}
	}
	s.log.Warn("Declared order total differs from its lines",
		zap.Uint("user_id", req.UserID),
		zap.String("declared", req.Total.String()),
		zap.String("computed", sum.String()),
	)
	return nil
}

// ListUserOrders returns the orders of a user, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GetOrderDetail returns an order with its lines.
func (s *OrderService) GetOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	return s.orderRepo.GetDetail(ctx, id)
}

// ListAllOrders returns every order with its customer name.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderSummary, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling restocks
// its lines. Disallowed moves yield *models.InvalidTransitionError.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	from, ok := allowedFrom[status]
	if !ok {
		return &models.ValidationError{Message: "Estado de pedido inválido", Fields: map[string]string{"estado": string(status)}}
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, from); err != nil {
		var transition *models.InvalidTransitionError
		if errors.Is(err, models.ErrNotFound) || errors.As(err, &transition) {
			return err
		}
		s.log.Error("Order status update rolled back",
			zap.String("op", "update_order_status"),
			zap.Uint("order_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return &models.StorageError{Op: "update order status", OrderID: id, Err: err}
	}

	s.publish(OrderEvent{Type: EventOrderStatusChanged, OrderID: id, Status: status})
	return nil
}

// publish is best effort: the change is already committed.
func (s *OrderService) publish(ev OrderEvent) {
	if s.publisher == nil {
		return
	}
	ev.EventID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()

	body, err := json.Marshal(ev)
	if err != nil {
		s.log.Warn("Failed to marshal order event", zap.Uint("order_id", ev.OrderID), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ev.Type, body); err != nil {
		s.log.Warn("Failed to publish order event",
			zap.String("type", ev.Type),
			zap.Uint("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
