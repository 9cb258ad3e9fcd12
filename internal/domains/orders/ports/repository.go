package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrAlreadyExists = errors.New("order already exists")
	// ErrStatusChanged is returned by UpdateStatus when the stored status no longer matches the expected one.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

// OrderProjection is an order together with its persistence timestamps.
type OrderProjection = projection.Projection[*domain.Order]

// ListFilter narrows List with equality constraints. Zero values match every order.
type ListFilter struct {
	BuyerEmail  string
	SellerEmail string
}

// Repository persists orders. List returns orders in creation order.
type Repository interface {
	// Create inserts a new order and fails with ErrAlreadyExists when the identifier is taken.
	Create(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	GetByID(ctx context.Context, id string) (*OrderProjection, error)
	// UpdateStatus moves the stored order from one status to another and refreshes its updated timestamp.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*OrderProjection, error)
	// Delete exists only for the placement rollback of an order whose stock decrement failed.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*OrderProjection, error)
}
