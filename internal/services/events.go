package services

import (
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/models"
)

// Routing keys published on the orders exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher sends an encoded event to the message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	EventID    string                    `json:"event_id"`
	Type       string                    `json:"type"`
	OrderID    uint                      `json:"order_id"`
	UserID     uint                      `json:"user_id,omitempty"`
	Status     models.OrderStatus        `json:"status"`
	Total      *decimal.Decimal          `json:"total,omitempty"`
	Items      []models.OrderItemRequest `json:"items,omitempty"`
	OccurredAt time.Time                 `json:"occurred_at"`
}
