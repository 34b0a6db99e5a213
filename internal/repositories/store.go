package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside
// WithTx every repository obtained from the callback's Store runs on the
// same transaction.
type Store interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Users() UserRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store backed by db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Carts() CartRepository       { return NewGORMCartRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository     { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Users() UserRepository       { return NewGORMUserRepository(s.db) }

// WithTx runs fn in a database transaction. The transaction commits when fn
// returns nil and rolls back on any error or panic.
func (s *GORMStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}

// DB exposes the underlying handle.
func (s *GORMStore) DB() *gorm.DB {
	return s.db
}
