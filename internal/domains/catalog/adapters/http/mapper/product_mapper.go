package mapper

import (
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

// ProductPayload captures inbound create/update bodies. Price travels as a decimal string.
type ProductPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Status      *int   `json:"status,omitempty"`
}

// Product is the HTTP representation of a catalog listing.
type Product struct {
	ID          string    `json:"id"`
	SellerEmail string    `json:"sellerEmail"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Catalog is the browse response: visible products plus every known category.
type Catalog struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
}

// ToProductInput converts a transport payload into the application input.
func ToProductInput(payload ProductPayload) ports.ProductInput {
	input := ports.ProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		ImageURL:    payload.ImageURL,
		Price:       payload.Price,
		Stock:       payload.Stock,
		Category:    payload.Category,
	}
	if payload.Status != nil {
		status := *payload.Status
		input.Status = &status
	}
	return input
}

// FromDomainProduct maps a domain product into its transport shape.
func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		SellerEmail: p.SellerEmail,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Category:    p.Category,
		Status:      int(p.Status),
	}
}

// FromProjection maps a stored product including its timestamps.
func FromProjection(proj *ports.ProductProjection) Product {
	if proj == nil {
		return Product{}
	}
	out := FromDomainProduct(proj.Entity)
	out.CreatedAt = proj.Metadata.CreatedAt
	out.UpdatedAt = proj.Metadata.UpdatedAt
	return out
}

// FromProjections maps a list of stored products.
func FromProjections(list []*ports.ProductProjection) []Product {
	out := make([]Product, 0, len(list))
	for _, proj := range list {
		out = append(out, FromProjection(proj))
	}
	return out
}

// FromBrowseResult maps the browse result.
func FromBrowseResult(result *ports.BrowseResult) Catalog {
	if result == nil {
		return Catalog{Products: []Product{}, Categories: []string{}}
	}
	categories := append([]string{}, result.Categories...)
	return Catalog{Products: FromProjections(result.Products), Categories: categories}
}
