package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Create inserts an empty cart with a random ID.
func (r *GORMCartRepository) Create(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{ID: uuid.New().String()}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id") }).
		Preload("Items.Product").
		First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, err)
	}
	return &cart, nil
}

// FindItem returns the line for productID in cartID.
func (r *GORMCartRepository) FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// AddItem inserts a new line. A concurrent insert of the same product
// surfaces as ErrDuplicate.
func (r *GORMCartRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cart item for product %s: %w", item.ProductID, ErrDuplicate)
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// IncrementItem bumps the quantity in SQL so concurrent adds are not lost.
func (r *GORMCartRepository) IncrementItem(ctx context.Context, itemID uint) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to increment cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID string, itemID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %d in cart %s: %w", itemID, cartID, ErrNotFound)
	}
	return nil
}

// Delete removes the cart and its lines.
func (r *GORMCartRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete items of cart %s: %w", id, err)
	}
	res := db.Delete(&models.Cart{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
