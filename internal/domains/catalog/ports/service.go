package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// ProductInput carries the seller-editable product fields.
type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       string
	Stock       int
	Category    string
	// Status defaults to active on create and is left unchanged on update when nil.
	Status *int
	// IfMatch, when set, must equal the product's VersionTag for an update to apply.
	IfMatch string
}

// BrowseInput carries the optional buyer filters as received from the caller.
type BrowseInput struct {
	Term         string
	Category     string
	PriceBracket string
}

// BrowseResult is the visible catalog plus the categories for selection controls.
type BrowseResult struct {
	Products   []*ProductProjection
	Categories []string
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, actor identity.Identity, input ProductInput) (*ProductProjection, error)
	UpdateProduct(ctx context.Context, actor identity.Identity, id string, input ProductInput) (*ProductProjection, error)
	DeleteProduct(ctx context.Context, actor identity.Identity, id string) error
	GetProduct(ctx context.Context, id string) (*ProductProjection, error)
	ListSellerProducts(ctx context.Context, actor identity.Identity) ([]*ProductProjection, error)
	Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error)
}
