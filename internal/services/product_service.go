package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts retrieves the catalog, narrowed by filter.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if err := validateStruct(productFilterInput{Category: filter.Category, SubCategory: filter.SubCategory}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

type productFilterInput struct {
	Category    string `json:"category" validate:"omitempty,oneof=preteen teen"`
	SubCategory string `json:"sub_category" validate:"omitempty,oneof=tops bottoms dresses sets"`
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product. Orders already placed keep the
// price they were placed at.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) check(product *models.Product) error {
	if err := validateStruct(product); err != nil {
		return err
	}
	if product.Price.IsNegative() {
		return newValidationError("price", "Ensure this value is greater than or equal to 0.")
	}
	return nil
}
