package repositories

import (
	"context"

	"tienda/internal/models"
)

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	Add(ctx context.Context, fav *models.Favorite) error
	ListProducts(ctx context.Context, userID uint) ([]models.Product, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	Remove(ctx context.Context, userID, productID uint) error
}
