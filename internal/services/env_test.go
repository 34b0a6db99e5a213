package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderPlaced
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, ev events.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.OrderPlaced {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderPlaced(nil), p.events...)
}

type env struct {
	db        *gorm.DB
	store     *repositories.GORMStore
	metrics   *metrics.Metrics
	publisher *recordingPublisher
	carts     *services.CartService
	checkout  *services.CheckoutService
	linker    *services.AccountLinker
	accounts  *services.AccountService
	orders    *services.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t)
	store := repositories.NewGORMStore(db)
	m := metrics.New()
	pub := &recordingPublisher{}
	linker := services.NewAccountLinker(store, m, testLog)

	return &env{
		db:        db,
		store:     store,
		metrics:   m,
		publisher: pub,
		carts:     services.NewCartService(store, m, testLog),
		checkout:  services.NewCheckoutService(store, linker, pub, m, testLog),
		linker:    linker,
		accounts:  services.NewAccountService(store, linker, testLog),
		orders:    services.NewOrderService(store.Orders()),
	}
}

func (e *env) product(t *testing.T, name string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.NewFromInt(price), Category: models.CategoryTeen}
	require.NoError(t, e.store.Products().Create(context.Background(), p))
	return p
}

func (e *env) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Count(&n).Error)
	return n
}

// failNthInsert makes the nth INSERT into table fail.
func (e *env) failNthInsert(t *testing.T, table string, nth int) {
	t.Helper()
	var seen int
	err := e.db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		seen++
		if seen == nth {
			tx.AddError(errors.New("forced insert failure"))
		}
	})
	require.NoError(t, err)
}

func shipping(email string) services.ShippingInfo {
	return services.ShippingInfo{
		FirstName: "Amy",
		LastName:  "Pond",
		Email:     email,
		Address:   "1 Leadworth Lane",
		City:      "Leadworth",
		Postcode:  "LW1 1AA",
	}
}
