package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

func newOrder(t *testing.T, id, buyer, seller string) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(id, buyer, seller, "p-1", 1, decimal.NewFromInt(3), "")
	require.NoError(t, err)
	return o
}

func TestRepository_CreateRejectsDuplicateIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder(t, "o-1", "b@example.com", "s@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t, "o-1", "b@example.com", "s@example.com"))
	require.ErrorIs(t, err, ports.ErrAlreadyExists)
}

func TestRepository_UpdateStatusComparesAndSwaps(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { tick = tick.Add(time.Second); return tick })

	created, err := repo.Create(ctx, newOrder(t, "o-1", "b@example.com", "s@example.com"))
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, updated.Entity.Status)
	require.True(t, updated.Metadata.UpdatedAt.After(created.Metadata.UpdatedAt))
	require.Equal(t, created.Metadata.CreatedAt, updated.Metadata.CreatedAt)

	_, err = repo.UpdateStatus(ctx, "o-1", domain.StatusPending, domain.StatusCancelled)
	require.ErrorIs(t, err, ports.ErrStatusChanged)
	_, err = repo.UpdateStatus(ctx, "missing", domain.StatusPending, domain.StatusCancelled)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFiltersByParty(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for _, o := range []*domain.Order{
		newOrder(t, "o-1", "a@example.com", "s1@example.com"),
		newOrder(t, "o-2", "b@example.com", "s1@example.com"),
		newOrder(t, "o-3", "a@example.com", "s2@example.com"),
	} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	byBuyer, err := repo.List(ctx, ports.ListFilter{BuyerEmail: "A@example.com"})
	require.NoError(t, err)
	require.Len(t, byBuyer, 2)
	require.Equal(t, "o-1", byBuyer[0].Entity.ID)
	require.Equal(t, "o-3", byBuyer[1].Entity.ID)

	bySeller, err := repo.List(ctx, ports.ListFilter{SellerEmail: "s1@example.com"})
	require.NoError(t, err)
	require.Len(t, bySeller, 2)

	require.NoError(t, repo.Delete(ctx, "o-2"))
	require.ErrorIs(t, repo.Delete(ctx, "o-2"), ports.ErrNotFound)
	all, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestIdempotencyStore_ConflictsOnDifferentRequest(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)
	require.False(t, saved.CreatedAt.IsZero())

	same, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)
	require.Equal(t, "o-1", same.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2", OrderID: "o-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "h1", existing.RequestHash)

	missing, err := store.Get(ctx, "other")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestIdempotencyStore_MarkCommitted(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-1", Committed: true})
	require.NoError(t, err)
	require.False(t, saved.Committed, "new keys start uncommitted")

	require.NoError(t, store.MarkCommitted(ctx, "k"))
	require.NoError(t, store.MarkCommitted(ctx, "unknown"))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, got.Committed)

	retried, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o-9"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.True(t, retried.Committed)
	require.Equal(t, "o-1", retried.OrderID)
}
