package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"tienda/internal/models"
	"tienda/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetStock returns the current stock of a product.
func (s *ProductService) GetStock(ctx context.Context, id uint) (*models.StockLevel, error) {
	return s.repo.GetStock(ctx, id)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates and overwrites an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) check(product *models.Product) error {
	if err := checkStruct(s.validate, product, msgInvalidData); err != nil {
		return err
	}
	if !product.Price.IsPositive() {
		return &models.ValidationError{Message: msgInvalidData, Fields: map[string]string{"precio": "gt=0"}}
	}
	return nil
}
