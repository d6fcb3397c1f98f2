package repositories

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"tienda/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, wrap(err, "get all products")
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, wrap(err, "get product %d", id)
	}
	return &product, nil
}

// GetStock reads only the stock column of a product.
func (r *GORMProductRepository) GetStock(ctx context.Context, id uint) (*models.StockLevel, error) {
	var level models.StockLevel
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "stock").
		Where("id = ?", id).
		Take(&level).Error
	if err != nil {
		return nil, wrap(err, "get stock of product %d", id)
	}
	return &level, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return wrap(err, "create product")
	}
	return nil
}

// Update overwrites every column of an existing product, zero values included.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit("id").Updates(product)
	if res.Error != nil {
		return wrap(res.Error, "update product %d", product.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "update product %d", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return wrap(res.Error, "delete product %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "delete product %d", id)
	}
	return nil
}
