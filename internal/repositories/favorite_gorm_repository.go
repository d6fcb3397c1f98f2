package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"tienda/internal/models"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{
		db: db,
	}
}

// Add stores the pair. An existing pair yields models.ErrDuplicate.
func (r *GORMFavoriteRepository) Add(ctx context.Context, fav *models.Favorite) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		return wrap(err, "add favorite %d/%d", fav.UserID, fav.ProductID)
	}
	return nil
}

// ListProducts returns the products a user marked as favorite.
func (r *GORMFavoriteRepository) ListProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN favoritos ON favoritos.id_producto = productos.id").
		Where("favoritos.id_usuario = ?", userID).
		Order("productos.id").
		Find(&products).Error
	if err != nil {
		return nil, wrap(err, "list favorites of user %d", userID)
	}
	return products, nil
}

// Exists reports whether the user marked the product as favorite.
func (r *GORMFavoriteRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("id_usuario = ? AND id_producto = ?", userID, productID).
		Count(&n).Error
	if err != nil {
		return false, wrap(err, "check favorite %d/%d", userID, productID)
	}
	return n > 0, nil
}

// Remove deletes the pair; models.ErrNotFound when nothing was removed.
func (r *GORMFavoriteRepository) Remove(ctx context.Context, userID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("id_usuario = ? AND id_producto = ?", userID, productID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return wrap(res.Error, "remove favorite %d/%d", userID, productID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "remove favorite %d/%d", userID, productID)
	}
	return nil
}
