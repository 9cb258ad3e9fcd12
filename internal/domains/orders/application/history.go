package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// GetOrder returns one order to its buyer or seller.
func (s *Service) GetOrder(ctx context.Context, actor identity.Identity, orderID string) (*ports.OrderView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if !order.Entity.PlacedBy(actor.Email) && !order.Entity.SoldBy(actor.Email) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errNotParty)
	}
	views, err := s.enrich(ctx, []*ports.OrderProjection{order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListBuyerOrders returns the actor's purchases, oldest first.
func (s *Service) ListBuyerOrders(ctx context.Context, actor identity.Identity) ([]ports.OrderView, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errNoActor)
	}
	orders, err := s.orders.List(ctx, ports.ListFilter{BuyerEmail: actor.Email})
	if err != nil {
		return nil, mapError(err)
	}
	return s.enrich(ctx, orders)
}

// ListSellerOrders returns orders for the acting seller's products, oldest first.
func (s *Service) ListSellerOrders(ctx context.Context, actor identity.Identity) ([]ports.OrderView, error) {
	if actor.Role != identity.RoleSeller || strings.TrimSpace(actor.Email) == "" {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errSellerOnly)
	}
	orders, err := s.orders.List(ctx, ports.ListFilter{SellerEmail: actor.Email})
	if err != nil {
		return nil, mapError(err)
	}
	return s.enrich(ctx, orders)
}

// enrich attaches product views, substituting a placeholder for deleted products.
func (s *Service) enrich(ctx context.Context, orders []*ports.OrderProjection) ([]ports.OrderView, error) {
	cache := map[string]ports.ProductView{}
	views := make([]ports.OrderView, 0, len(orders))
	for _, order := range orders {
		productID := order.Entity.ProductID
		view, ok := cache[productID]
		if !ok {
			var err error
			view, err = s.productView(ctx, productID)
			if err != nil {
				return nil, err
			}
			cache[productID] = view
		}
		views = append(views, ports.OrderView{Order: order, Product: view})
	}
	return views, nil
}

func (s *Service) productView(ctx context.Context, productID string) (ports.ProductView, error) {
	product, err := s.inventory.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) {
			return PlaceholderProduct(productID), nil
		}
		return ports.ProductView{}, mapError(err)
	}
	return ports.ProductView{
		ID:       product.Entity.ID,
		Name:     product.Entity.Name,
		ImageURL: product.Entity.ImageURL,
	}, nil
}

// PlaceholderProduct is the view shown for an order whose product no longer exists.
func PlaceholderProduct(productID string) ports.ProductView {
	return ports.ProductView{
		ID:      productID,
		Name:    fmt.Sprintf("Product %s", productID),
		Missing: true,
	}
}
