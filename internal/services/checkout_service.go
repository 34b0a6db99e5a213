package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"
)

// ShippingInfo is the customer input collected at checkout.
type ShippingInfo struct {
	FirstName     string `json:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Address       string `json:"address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	Postcode      string `json:"postcode" validate:"required,max=20"`
	CharityChoice string `json:"charity_choice" validate:"omitempty,max=100"`
}

func (in *ShippingInfo) trim() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = models.NormalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Postcode = strings.TrimSpace(in.Postcode)
	in.CharityChoice = strings.TrimSpace(in.CharityChoice)
}

// CheckoutService turns a session's cart into an order.
type CheckoutService struct {
	store     repositories.Store
	linker    *AccountLinker
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(store repositories.Store, linker *AccountLinker, publisher events.Publisher, m *metrics.Metrics, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		store:     store,
		linker:    linker,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Checkout converts the cart bound to sess into an order. The order, its
// items (priced at the products' current prices), the linking of the
// identity's earlier orders and the deletion of the cart happen in one
// transaction. On success the session forgets the cart and remembers the
// order as its last one. identity may be nil for guest checkouts.
func (s *CheckoutService) Checkout(ctx context.Context, sess session.Accessor, identity *models.User, info ShippingInfo) (*models.Order, error) {
	order, err := s.checkout(ctx, sess.CartID(), identity, info)
	switch {
	case err == nil:
		s.metrics.Checkouts.WithLabelValues(metrics.CheckoutSuccess).Inc()
	case errors.Is(err, ErrEmptyCart):
		s.metrics.Checkouts.WithLabelValues(metrics.CheckoutEmptyCart).Inc()
		return nil, err
	case errors.Is(err, ErrValidation):
		s.metrics.Checkouts.WithLabelValues(metrics.CheckoutInvalid).Inc()
		return nil, err
	default:
		s.metrics.Checkouts.WithLabelValues(metrics.CheckoutError).Inc()
		return nil, err
	}

	sess.SetCartID("")
	sess.SetLastOrderID(order.ID)
	s.log.Info("checkout completed", "order_id", order.ID, "items", len(order.Items), "total", order.Total().StringFixed(2))

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		s.metrics.EventsFailed.Inc()
		s.log.Warn("failed to publish order event", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *CheckoutService) checkout(ctx context.Context, cartID string, identity *models.User, info ShippingInfo) (*models.Order, error) {
	if err := s.requireItems(ctx, s.store, cartID); err != nil {
		return nil, err
	}

	info.trim()
	if err := validateStruct(info); err != nil {
		return nil, err
	}

	order := &models.Order{
		FirstName: info.FirstName,
		LastName:  info.LastName,
		Email:     info.Email,
		Address:   info.Address,
		City:      info.City,
		Postcode:  info.Postcode,
	}
	if info.CharityChoice != "" {
		choice := info.CharityChoice
		order.CharityChoice = &choice
	}
	if identity != nil {
		userID := identity.ID
		order.UserID = &userID
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		// Re-read inside the transaction so prices and lines are current.
		cart, err := tx.Carts().GetByID(ctx, cartID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		order.Items = make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Price:     line.Product.Price,
				Quantity:  line.Quantity,
			}
			if err := tx.Orders().AddItem(ctx, &item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		if identity != nil {
			if _, err := s.linker.linkIn(ctx, tx, identity); err != nil {
				return err
			}
		}
		return tx.Carts().Delete(ctx, cart.ID)
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, err
		}
		return nil, fmt.Errorf("checkout of cart %s failed: %w", cartID, err)
	}
	return order, nil
}

func (s *CheckoutService) requireItems(ctx context.Context, store repositories.Store, cartID string) error {
	if cartID == "" {
		return ErrEmptyCart
	}
	cart, err := store.Carts().GetByID(ctx, cartID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrEmptyCart
	}
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}
