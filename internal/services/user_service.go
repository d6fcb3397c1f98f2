package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// UserService handles profile reads and updates.
type UserService struct {
	repo     repositories.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetProfile returns the user without its password hash.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile validates and stores the editable fields.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, profile models.Profile) error {
	if err := checkStruct(s.validate, profile, msgInvalidData); err != nil {
		return err
	}
	if err := s.repo.UpdateProfile(ctx, id, profile); err != nil {
		return errors.Wrap(err, "update profile")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.repo.List(ctx)
}
