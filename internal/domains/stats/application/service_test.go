package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

var seller = identity.Identity{Email: "seller@example.com", Role: identity.RoleSeller}

type failingProducts struct{}

func (failingProducts) List(context.Context, catalogports.ListFilter) ([]*catalogports.ProductProjection, error) {
	return nil, errors.New("connection refused")
}

func TestSellerStats_ReadsOnlyTheSellersRows(t *testing.T) {
	ctx := context.Background()
	products := catalogmemory.NewRepository()
	orders := ordersmemory.NewRepository()

	for i, spec := range []struct {
		id     string
		owner  string
		status catalogdomain.Status
	}{
		{"p-1", seller.Email, catalogdomain.StatusActive},
		{"p-2", seller.Email, catalogdomain.StatusInactive},
		{"p-3", "other@example.com", catalogdomain.StatusActive},
	} {
		p, err := catalogdomain.NewProduct(spec.id, spec.owner, "Mug", "Glazed stoneware mug", "", decimal.NewFromInt(int64(5+i)), 3, "Kitchen", spec.status)
		require.NoError(t, err)
		_, err = products.Save(ctx, p)
		require.NoError(t, err)
	}
	o1, err := ordersdomain.NewOrder("o-1", "b@example.com", seller.Email, "p-1", 2, decimal.RequireFromString("5.25"), "")
	require.NoError(t, err)
	_, err = orders.Create(ctx, o1)
	require.NoError(t, err)
	o2, err := ordersdomain.NewOrder("o-2", "b@example.com", seller.Email, "p-2", 1, decimal.RequireFromString("6.00"), "")
	require.NoError(t, err)
	o2.Status = ordersdomain.StatusDelivered
	_, err = orders.Create(ctx, o2)
	require.NoError(t, err)
	o3, err := ordersdomain.NewOrder("o-3", "b@example.com", "other@example.com", "p-3", 1, decimal.RequireFromString("7.00"), "")
	require.NoError(t, err)
	_, err = orders.Create(ctx, o3)
	require.NoError(t, err)

	svc := NewService(products, orders)
	stats, err := svc.SellerStats(ctx, seller)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalProducts)
	require.Equal(t, 1, stats.ActiveProducts)
	require.Equal(t, 2, stats.TotalOrders)
	require.Equal(t, "16.50", stats.TotalRevenue.StringFixed(2))
	require.Equal(t, 1, stats.PendingOrders)
}

func TestSellerStats_Failures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(catalogmemory.NewRepository(), ordersmemory.NewRepository())
	_, err := svc.SellerStats(ctx, identity.Identity{Email: "b@example.com", Role: identity.RoleBuyer})
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	svc = NewService(failingProducts{}, ordersmemory.NewRepository())
	_, err = svc.SellerStats(ctx, seller)
	require.ErrorIs(t, err, apperrors.ErrPersistence)
}
