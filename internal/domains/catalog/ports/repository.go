package ports

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

var ErrNotFound = errors.New("product not found")

// ErrStale reports that a product changed after the caller read it.
var ErrStale = errors.New("product was modified since it was read")

// ProductProjection is a product together with its persistence timestamps.
type ProductProjection = projection.Projection[*domain.Product]

// ListFilter narrows List with equality constraints. Zero values match every product.
type ListFilter struct {
	SellerEmail string
}

// Repository persists products. List returns products in creation order.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	// Update replaces a stored product while its last modification time still
	// equals unmodifiedSince, and fails with ErrStale otherwise.
	Update(ctx context.Context, product *domain.Product, unmodifiedSince time.Time) (*ProductProjection, error)
	GetByID(ctx context.Context, id string) (*ProductProjection, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*ProductProjection, error)
	// DecrementStock atomically applies domain.Product.TakeStock to the stored
	// product. Conflicting calls on the same product are serialized; a call
	// that loses the race observes the post-decrement stock and fails with
	// domain.ErrInsufficientStock, or domain.ErrInactive if the
	// product was deactivated.
	DecrementStock(ctx context.Context, id string, qty int) (*ProductProjection, error)
}

// VersionTag is the concurrency token of a stored product. Every write,
// including stock decrements, changes it.
func VersionTag(product *ProductProjection) string {
	return strconv.FormatInt(product.Metadata.UpdatedAt.UnixNano(), 10)
}
