package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"
)

// OrderService serves order history.
type OrderService struct {
	orderRepo repositories.OrderRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListForUser returns the orders belonging to user, either linked to the
// account or placed with its email, newest first.
func (s *OrderService) ListForUser(ctx context.Context, user *models.User) ([]models.Order, error) {
	return s.orderRepo.ListForUser(ctx, user.ID, user.Email)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// LastOrder returns the order most recently placed in sess.
func (s *OrderService) LastOrder(ctx context.Context, sess session.Accessor) (*models.Order, error) {
	id := sess.LastOrderID()
	if id == "" {
		return nil, ErrNotFound
	}
	return s.orderRepo.GetByID(ctx, id)
}
