package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/session"
)

// CartResolution is the result of resolving a visitor's cart. Created is
// true when a new cart had to be made; the caller must then remember
// Cart.ID for the visitor.
type CartResolution struct {
	Cart    *models.Cart
	Created bool
}

// CartService manages anonymous carts.
type CartService struct {
	store   repositories.Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store, m *metrics.Metrics, log *slog.Logger) *CartService {
	return &CartService{store: store, metrics: m, log: log}
}

// Resolve loads the cart with id cartID, or creates an empty one when the id
// is empty or no longer refers to a cart.
func (s *CartService) Resolve(ctx context.Context, cartID string) (CartResolution, error) {
	if cartID != "" {
		cart, err := s.store.Carts().GetByID(ctx, cartID)
		if err == nil {
			return CartResolution{Cart: cart}, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return CartResolution{}, err
		}
	}

	cart, err := s.store.Carts().Create(ctx)
	if err != nil {
		return CartResolution{}, err
	}
	s.metrics.CartsCreated.Inc()
	s.log.Debug("cart created", "cart_id", cart.ID)
	return CartResolution{Cart: cart, Created: true}, nil
}

// ResolveSession resolves the cart referenced by sess and binds a newly
// created cart to it.
func (s *CartService) ResolveSession(ctx context.Context, sess session.Accessor) (*models.Cart, error) {
	res, err := s.Resolve(ctx, sess.CartID())
	if err != nil {
		return nil, err
	}
	if res.Created {
		sess.SetCartID(res.Cart.ID)
	}
	return res.Cart, nil
}

// AddItem adds one unit of productID to cart. Adding a product already in
// the cart increments its line instead of creating a second one. The
// reloaded cart is returned.
func (s *CartService) AddItem(ctx context.Context, cart *models.Cart, productID string) (*models.Cart, error) {
	if productID == "" {
		return nil, newValidationError("product_id", "This field is required.")
	}
	if _, err := s.store.Products().GetByID(ctx, productID); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		return addOrIncrement(ctx, tx.Carts(), cart.ID, productID)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		// Another request inserted the line first.
		err = addOrIncrement(ctx, s.store.Carts(), cart.ID, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add product %s to cart %s: %w", productID, cart.ID, err)
	}

	s.metrics.CartItemsAdded.Inc()
	return s.store.Carts().GetByID(ctx, cart.ID)
}

func addOrIncrement(ctx context.Context, carts repositories.CartRepository, cartID, productID string) error {
	item, err := carts.FindItem(ctx, cartID, productID)
	if err == nil {
		return carts.IncrementItem(ctx, item.ID)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return carts.AddItem(ctx, &models.CartItem{CartID: cartID, ProductID: productID, Quantity: 1})
}

// RemoveItem deletes the whole line itemID from cart. Lines of other carts
// are reported as not found.
func (s *CartService) RemoveItem(ctx context.Context, cart *models.Cart, itemID uint) (*models.Cart, error) {
	if itemID == 0 {
		return nil, newValidationError("item_id", "This field is required.")
	}
	if err := s.store.Carts().RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.store.Carts().GetByID(ctx, cart.ID)
}
