package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order row only; items are added with AddItem.
	Create(ctx context.Context, order *models.Order) error
	AddItem(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// LinkByEmail attaches every unlinked order placed with email to userID
	// and returns how many were linked.
	LinkByEmail(ctx context.Context, userID, email string) (int64, error)
	// ListForUser returns orders linked to userID or placed with email,
	// newest first.
	ListForUser(ctx context.Context, userID, email string) ([]models.Order, error)
	Count(ctx context.Context) (int64, error)
}
