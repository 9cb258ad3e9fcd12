package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

var errSellerOnly = errors.New("only sellers manage products")

// Service orchestrates the catalog use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// Option customizes the catalog service.
type Option func(*Service)

// WithIDGenerator overrides how product identifiers are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService wires the catalog service with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateProduct lists a new product owned by the acting seller.
func (s *Service) CreateProduct(ctx context.Context, actor identity.Identity, input ports.ProductInput) (*ports.ProductProjection, error) {
	if actor.Role != identity.RoleSeller {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errSellerOnly)
	}
	status := domain.StatusActive
	if input.Status != nil {
		status = domain.Status(*input.Status)
	}
	product, err := buildProduct(s.newID(), actor.Email, input, status)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct replaces the editable fields of a product owned by the actor.
// The write is rejected when the product changed since it was read.
func (s *Service) UpdateProduct(ctx context.Context, actor identity.Identity, id string, input ports.ProductInput) (*ports.ProductProjection, error) {
	existing, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.IfMatch != "" && input.IfMatch != ports.VersionTag(existing) {
		return nil, mapError(ports.ErrStale)
	}
	status := existing.Entity.Status
	if input.Status != nil {
		status = domain.Status(*input.Status)
	}
	product, err := buildProduct(existing.Entity.ID, existing.Entity.SellerEmail, input, status)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Update(ctx, product, existing.Metadata.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteProduct removes a product owned by the actor. Orders that reference it are kept.
func (s *Service) DeleteProduct(ctx context.Context, actor identity.Identity, id string) error {
	if _, err := s.ownedProduct(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (*ports.ProductProjection, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// ListSellerProducts returns every product the actor owns, whatever its status.
func (s *Service) ListSellerProducts(ctx context.Context, actor identity.Identity) ([]*ports.ProductProjection, error) {
	if actor.Role != identity.RoleSeller {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errSellerOnly)
	}
	products, err := s.repo.List(ctx, ports.ListFilter{SellerEmail: actor.Email})
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Browse filters the live catalog for buyers and derives the category list.
func (s *Service) Browse(ctx context.Context, input ports.BrowseInput) (*ports.BrowseResult, error) {
	bracket, err := domain.ParseBracket(input.PriceBracket)
	if err != nil {
		return nil, mapError(err)
	}
	all, err := s.repo.List(ctx, ports.ListFilter{})
	if err != nil {
		return nil, mapError(err)
	}
	products := make([]*domain.Product, 0, len(all))
	byProduct := make(map[*domain.Product]*ports.ProductProjection, len(all))
	for _, proj := range all {
		if proj == nil || proj.Entity == nil {
			continue
		}
		products = append(products, proj.Entity)
		byProduct[proj.Entity] = proj
	}
	visible := domain.Filter(products, domain.Query{
		Term:     input.Term,
		Category: input.Category,
		Bracket:  bracket,
	})
	result := &ports.BrowseResult{
		Products:   make([]*ports.ProductProjection, 0, len(visible)),
		Categories: domain.Categories(products),
	}
	for _, p := range visible {
		result.Products = append(result.Products, byProduct[p])
	}
	return result, nil
}

func (s *Service) ownedProduct(ctx context.Context, actor identity.Identity, id string) (*ports.ProductProjection, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if actor.Role != identity.RoleSeller || !existing.Entity.OwnedBy(actor.Email) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, fmt.Errorf("product %s belongs to another seller", id))
	}
	return existing, nil
}

func buildProduct(id, seller string, input ports.ProductInput, status domain.Status) (*domain.Product, error) {
	price, err := domain.ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	return domain.NewProduct(id, seller, input.Name, input.Description, input.ImageURL, price, input.Stock, input.Category, status)
}

var _ ports.Service = (*Service)(nil)
