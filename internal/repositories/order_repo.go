package repositories

import (
	"context"

	"tienda/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Place stores the order, its lines and the stock decrements atomically.
	Place(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	GetDetail(ctx context.Context, id uint) (*models.OrderDetail, error)
	ListAll(ctx context.Context) ([]models.OrderSummary, error)
	// UpdateStatus moves the order to `to` only if its current status is one of `from`.
	UpdateStatus(ctx context.Context, id uint, to models.OrderStatus, from []models.OrderStatus) error
}
