// Package memory implements the store contract in memory, for tests and for
// running the service in demo mode without external dependencies.
package memory

import (
	"context"
	"slices"
	"sync"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps the inventory snapshot and payment history in memory.
type Store struct {
	mu      sync.RWMutex
	rows    []inventory.Row
	history []payment.Record
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// NewWithRows creates a Store pre-loaded with the given inventory snapshot.
func NewWithRows(rows []inventory.Row) *Store {
	return &Store{rows: slices.Clone(rows)}
}

func (s *Store) ReadInventory(_ context.Context) ([]inventory.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rows), nil
}

func (s *Store) OverwriteInventory(_ context.Context, rows []inventory.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = slices.Clone(rows)
	return nil
}

func (s *Store) AppendPayment(_ context.Context, rec payment.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, rec)
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

// History returns a copy of the appended payment records, oldest first.
func (s *Store) History() []payment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}
