package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"tienda/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. A taken email yields models.ErrDuplicate.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrap(err, "create user %s", user.Email)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "correo = ?", email).Error; err != nil {
		return nil, wrap(err, "get user by email %s", email)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap(err, "get user %d", id)
	}
	return &user, nil
}

// UpdateProfile overwrites the editable profile columns.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, id uint, p models.Profile) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"nombre":           p.Name,
			"correo":           p.Email,
			"celular":          p.Phone,
			"departamento":     p.Department,
			"provincia":        p.Province,
			"distrito":         p.District,
			"direccion":        p.Address,
			"tipo_documento":   p.DocumentType,
			"numero_documento": p.DocumentNumber,
		})
	if res.Error != nil {
		return wrap(res.Error, "update user %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "update user %d", id)
	}
	return nil
}

// List returns id, name, email and role of every user.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "nombre", "correo", "rol").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, wrap(err, "list users")
	}
	return users, nil
}
