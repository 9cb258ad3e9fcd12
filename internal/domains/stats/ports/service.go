package ports

import (
	"context"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/stats/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// ProductSource lists products. The catalog repositories satisfy it.
type ProductSource interface {
	List(ctx context.Context, filter catalogports.ListFilter) ([]*catalogports.ProductProjection, error)
}

// OrderSource lists orders. The orders repositories satisfy it.
type OrderSource interface {
	List(ctx context.Context, filter ordersports.ListFilter) ([]*ordersports.OrderProjection, error)
}

// Service exposes the seller dashboard figures.
type Service interface {
	SellerStats(ctx context.Context, actor identity.Identity) (*domain.SellerStats, error)
}
