package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	Create(ctx context.Context) (*models.Cart, error)
	// GetByID loads a cart with its items and their products.
	GetByID(ctx context.Context, id string) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	AddItem(ctx context.Context, item *models.CartItem) error
	IncrementItem(ctx context.Context, itemID uint) error
	// RemoveItem deletes the line only if it belongs to cartID.
	RemoveItem(ctx context.Context, cartID string, itemID uint) error
	Delete(ctx context.Context, id string) error
}
