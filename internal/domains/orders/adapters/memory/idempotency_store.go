package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps placement keys in a map guarded by a mutex.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]ports.IdempotencyRecord
	now  func() time.Time
}

// NewIdempotencyStore constructs an empty in-memory store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: map[string]ports.IdempotencyRecord{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.keys[key]; ok {
		return &record, nil
	}
	return nil, nil
}

// Save claims the key for the record. A key already held for another request
// or order is reported with ErrIdempotencyConflict and the stored record.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if held, ok := s.keys[record.Key]; ok {
		if held.RequestHash == record.RequestHash && held.OrderID == record.OrderID {
			return &held, nil
		}
		return &held, ports.ErrIdempotencyConflict
	}
	record.CreatedAt = s.now()
	record.UpdatedAt = record.CreatedAt
	record.Committed = false
	s.keys[record.Key] = record
	clone := record
	return &clone, nil
}

func (s *IdempotencyStore) MarkCommitted(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.keys[key]
	if !ok {
		return nil
	}
	record.Committed = true
	record.UpdatedAt = s.now()
	s.keys[key] = record
	return nil
}
