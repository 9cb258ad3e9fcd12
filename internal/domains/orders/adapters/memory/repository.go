package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	order     domain.Order
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory order store that lists orders in creation order.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*entry
	order  []string
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*ports.OrderProjection, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if order.ID == "" {
		return nil, errors.New("order id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; ok {
		return nil, ports.ErrAlreadyExists
	}
	now := r.now()
	e := &entry{order: *order, createdAt: now, updatedAt: now}
	r.orders[order.ID] = e
	r.order = append(r.order, order.ID)
	return e.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.projection(), nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, from, to domain.Status) (*ports.OrderProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if e.order.Status != from {
		return nil, ports.ErrStatusChanged
	}
	e.order.Status = to
	e.updatedAt = r.now()
	return e.projection(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*ports.OrderProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.OrderProjection, 0, len(r.order))
	for _, id := range r.order {
		e := r.orders[id]
		if filter.BuyerEmail != "" && !strings.EqualFold(e.order.BuyerEmail, filter.BuyerEmail) {
			continue
		}
		if filter.SellerEmail != "" && !strings.EqualFold(e.order.SellerEmail, filter.SellerEmail) {
			continue
		}
		list = append(list, e.projection())
	}
	return list, nil
}

func (e *entry) projection() *ports.OrderProjection {
	clone := e.order
	return projection.New(&clone, e.createdAt, e.updatedAt)
}
