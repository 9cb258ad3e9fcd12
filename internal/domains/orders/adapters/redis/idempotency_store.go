package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// keyPattern maps a buyer-scoped key to its stored record: idem:order:place:{buyer|key}.
const keyPattern = "idem:order:place:%s"

// DefaultTTL bounds how long a key can be replayed.
const DefaultTTL = 24 * time.Hour

// IdempotencyStore keeps placement idempotency keys in Redis with a TTL.
type IdempotencyStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewIdempotencyStore wires a Redis-backed store. A non-positive ttl uses DefaultTTL.
func NewIdempotencyStore(client goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl, now: time.Now}
}

type storedRecord struct {
	RequestHash string    `json:"request_hash"`
	OrderID     string    `json:"order_id"`
	Committed   bool      `json:"committed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Get returns the stored record for the key, or nil when unknown or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var rec storedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record %q: %w", key, err)
	}
	return toPortRecord(key, rec), nil
}

// Save claims the key with SET NX so only the first writer wins.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("redis idempotency store not configured")
	}
	now := s.now().UTC()
	rec := storedRecord{RequestHash: record.RequestHash, OrderID: record.OrderID, CreatedAt: now, UpdatedAt: now}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	claimed, err := s.client.SetNX(ctx, redisKey(record.Key), payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if claimed {
		return toPortRecord(record.Key, rec), nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Expired between SETNX and GET; try once more.
		return s.Save(ctx, record)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

// MarkCommitted rewrites the stored record with the committed flag set,
// keeping its remaining TTL.
func (s *IdempotencyStore) MarkCommitted(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	raw, err := s.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return err
	}
	var rec storedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return fmt.Errorf("decode idempotency record %q: %w", key, err)
	}
	rec.Committed = true
	rec.UpdatedAt = s.now().UTC()
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.SetXX(ctx, redisKey(key), payload, goredis.KeepTTL).Err()
}

func redisKey(key string) string {
	return fmt.Sprintf(keyPattern, key)
}

func toPortRecord(key string, rec storedRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		Committed:   rec.Committed,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
