// Package session keeps the per-visitor state the storefront needs between
// requests: the current cart and the last order placed.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by a Store when the session does not exist or has
// expired.
var ErrNotFound = errors.New("session not found")

// Accessor is the view of a session that services read and write.
type Accessor interface {
	CartID() string
	SetCartID(id string)
	LastOrderID() string
	SetLastOrderID(id string)
}

// Data is the persisted payload of a session.
type Data struct {
	CartID      string `json:"cart_id,omitempty"`
	LastOrderID string `json:"last_order_id,omitempty"`
}

// Session is a loaded session. It tracks whether it changed so the
// transport only writes it back when needed.
type Session struct {
	id    string
	data  Data
	dirty bool
}

// New returns an empty session with a fresh random id.
func New() *Session {
	return &Session{id: uuid.New().String()}
}

// FromData rebuilds a session loaded from a store.
func FromData(id string, data Data) *Session {
	return &Session{id: id, data: data}
}

func (s *Session) ID() string     { return s.id }
func (s *Session) Data() Data     { return s.data }
func (s *Session) Dirty() bool    { return s.dirty }
func (s *Session) MarkClean()     { s.dirty = false }
func (s *Session) CartID() string { return s.data.CartID }

func (s *Session) SetCartID(id string) {
	if s.data.CartID != id {
		s.data.CartID = id
		s.dirty = true
	}
}

func (s *Session) LastOrderID() string { return s.data.LastOrderID }

func (s *Session) SetLastOrderID(id string) {
	if s.data.LastOrderID != id {
		s.data.LastOrderID = id
		s.dirty = true
	}
}

// Store persists sessions by id.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
