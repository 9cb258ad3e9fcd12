package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// PlaceOrderInput is a buyer's purchase intent.
type PlaceOrderInput struct {
	Buyer          identity.Identity
	ProductID      string
	Quantity       int
	Notes          string
	IdempotencyKey string
}

// ProductView is the product summary shown next to an order. Missing is set
// when the product was deleted and a placeholder was substituted.
type ProductView struct {
	ID       string
	Name     string
	ImageURL string
	Missing  bool
}

// OrderView is an order enriched with its product view.
type OrderView struct {
	Order   *OrderProjection
	Product ProductView
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderProjection, error)
	TransitionStatus(ctx context.Context, actor identity.Identity, orderID string, status string) (*OrderProjection, error)
	GetOrder(ctx context.Context, actor identity.Identity, orderID string) (*OrderView, error)
	ListBuyerOrders(ctx context.Context, actor identity.Identity) ([]OrderView, error)
	ListSellerOrders(ctx context.Context, actor identity.Identity) ([]OrderView, error)
}

// Placement is the result of recording an order. Replayed is set when an
// idempotency key matched an earlier placement and no new order was written.
// IdempotencyKey is the buyer-scoped key FinalizeOrder marks as committed.
type Placement struct {
	Order          *OrderProjection
	Replayed       bool
	IdempotencyKey string
}

// PlacementSteps splits placement into the individually retryable steps the
// durable workflow drives. ReserveStock failures must be followed by DiscardOrder.
type PlacementSteps interface {
	RecordOrder(ctx context.Context, input PlaceOrderInput) (*Placement, error)
	ReserveStock(ctx context.Context, order *domain.Order) error
	DiscardOrder(ctx context.Context, orderID string) error
	FinalizeOrder(ctx context.Context, orderID, idempotencyKey string) (*OrderProjection, error)
}
