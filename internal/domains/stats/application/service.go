package application

import (
	"context"
	"errors"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/stats/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/stats/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

var errSellerOnly = errors.New("only sellers have a dashboard")

// Service reads the seller's products and orders and folds them into stats.
type Service struct {
	products ports.ProductSource
	orders   ports.OrderSource
}

func NewService(products ports.ProductSource, orders ports.OrderSource) *Service {
	return &Service{products: products, orders: orders}
}

// SellerStats recomputes the figures from the stores on every call.
func (s *Service) SellerStats(ctx context.Context, actor identity.Identity) (*domain.SellerStats, error) {
	if actor.Role != identity.RoleSeller || actor.Email == "" {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errSellerOnly)
	}
	products, err := s.products.List(ctx, catalogports.ListFilter{SellerEmail: actor.Email})
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	orders, err := s.orders.List(ctx, ordersports.ListFilter{SellerEmail: actor.Email})
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	productFacts := make([]domain.ProductFact, 0, len(products))
	for _, p := range products {
		productFacts = append(productFacts, domain.ProductFact{SellerEmail: p.Entity.SellerEmail, Status: int(p.Entity.Status)})
	}
	orderFacts := make([]domain.OrderFact, 0, len(orders))
	for _, o := range orders {
		orderFacts = append(orderFacts, domain.OrderFact{
			SellerEmail: o.Entity.SellerEmail,
			Total:       o.Entity.Total.String(),
			Status:      string(o.Entity.Status),
		})
	}
	stats := domain.Compute(actor.Email, productFacts, orderFacts)
	return &stats, nil
}

var _ ports.Service = (*Service)(nil)
