package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	product   domain.Product
	createdAt time.Time
	updatedAt time.Time
}

// Repository is an in-memory product store. It keeps insertion order so List
// mirrors the order sellers created their products.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*entry
	order    []string
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*entry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.ID == "" {
		return nil, errors.New("product id is required")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if existing, ok := r.products[product.ID]; ok {
		existing.product = *product
		r.touch(existing)
		return existing.projection(), nil
	}
	e := &entry{product: *product, createdAt: now, updatedAt: now}
	r.products[product.ID] = e
	r.order = append(r.order, product.ID)
	return e.projection(), nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product, unmodifiedSince time.Time) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.products[product.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if !e.updatedAt.Equal(unmodifiedSince) {
		return nil, ports.ErrStale
	}
	e.product = *product
	r.touch(e)
	return e.projection(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return e.projection(), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*ports.ProductProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.ProductProjection, 0, len(r.order))
	for _, id := range r.order {
		e := r.products[id]
		if filter.SellerEmail != "" && !strings.EqualFold(e.product.SellerEmail, filter.SellerEmail) {
			continue
		}
		list = append(list, e.projection())
	}
	return list, nil
}

func (r *Repository) DecrementStock(_ context.Context, id string, qty int) (*ports.ProductProjection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := e.product.TakeStock(qty); err != nil {
		return nil, err
	}
	r.touch(e)
	return e.projection(), nil
}

// touch advances updatedAt strictly so every write yields a new version tag.
func (r *Repository) touch(e *entry) {
	now := r.now()
	if !now.After(e.updatedAt) {
		now = e.updatedAt.Add(time.Nanosecond)
	}
	e.updatedAt = now
}

func (e *entry) projection() *ports.ProductProjection {
	clone := e.product
	return projection.New(&clone, e.createdAt, e.updatedAt)
}
