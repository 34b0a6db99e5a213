package services

import (
	"context"
	"log/slog"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderLinker attaches historical orders to a user.
type OrderLinker interface {
	LinkOrders(ctx context.Context, user *models.User) (int64, error)
}

// AccountLinker links unowned orders to the user whose email they were
// placed with. Anyone who controls the account for an email address gets
// the orders placed with it.
type AccountLinker struct {
	store   repositories.Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewAccountLinker creates a new AccountLinker.
func NewAccountLinker(store repositories.Store, m *metrics.Metrics, log *slog.Logger) *AccountLinker {
	return &AccountLinker{store: store, metrics: m, log: log}
}

// LinkOrders links every unlinked order with user's email to user and
// returns the number linked. Running it again links nothing new.
func (l *AccountLinker) LinkOrders(ctx context.Context, user *models.User) (int64, error) {
	return l.linkIn(ctx, l.store, user)
}

// linkIn runs the link on store, which may be a transaction.
func (l *AccountLinker) linkIn(ctx context.Context, store repositories.Store, user *models.User) (int64, error) {
	n, err := store.Orders().LinkByEmail(ctx, user.ID, user.Email)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		l.metrics.OrdersLinked.Add(float64(n))
		l.log.Info("orders linked to user", "user_id", user.ID, "count", n)
	}
	return n, nil
}
