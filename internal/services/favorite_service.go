package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// FavoriteService manages the products a user marked as favorite.
type FavoriteService struct {
	repo     repositories.FavoriteRepository
	validate *validator.Validate
}

func NewFavoriteService(repo repositories.FavoriteRepository) *FavoriteService {
	return &FavoriteService{
		repo:     repo,
		validate: validator.New(),
	}
}

// AddFavorite stores the pair; models.ErrDuplicate if it already exists.
func (s *FavoriteService) AddFavorite(ctx context.Context, fav models.Favorite) error {
	if err := checkStruct(s.validate, fav, msgInvalidData); err != nil {
		return err
	}
	return s.repo.Add(ctx, &fav)
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, userID)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID, productID uint) (bool, error) {
	return s.repo.Exists(ctx, userID, productID)
}

// RemoveFavorite deletes the pair; models.ErrNotFound when there was none.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, fav models.Favorite) error {
	if err := checkStruct(s.validate, fav, msgInvalidData); err != nil {
		return err
	}
	return s.repo.Remove(ctx, fav.UserID, fav.ProductID)
}
