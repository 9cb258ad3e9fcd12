package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Status marks whether a product is listed for sale.
type Status int

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
)

// MinDescriptionLength mirrors the seller product form.
const MinDescriptionLength = 10

var (
	ErrEmptySeller       = errors.New("product seller email is required")
	ErrEmptyName         = errors.New("product name is required")
	ErrShortDescription  = errors.New("product description must be at least 10 characters")
	ErrInvalidPrice      = errors.New("product price must be greater than zero with at most two decimals")
	ErrNegativeStock     = errors.New("product stock must not be negative")
	ErrEmptyCategory     = errors.New("product category is required")
	ErrInvalidStatus     = errors.New("product status must be 0 (inactive) or 1 (active)")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInactive          = errors.New("product is not active")
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)

// Product is a seller listing with a stock count.
type Product struct {
	ID          string
	SellerEmail string
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Status      Status
}

// NewProduct validates the listing invariants and builds a Product.
func NewProduct(id, sellerEmail, name, description, imageURL string, price decimal.Decimal, stock int, category string, status Status) (*Product, error) {
	p := &Product{
		ID:          id,
		SellerEmail: strings.TrimSpace(sellerEmail),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		ImageURL:    strings.TrimSpace(imageURL),
		Price:       price,
		Stock:       stock,
		Category:    strings.TrimSpace(category),
		Status:      status,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces the listing invariants.
func (p *Product) Validate() error {
	if p.SellerEmail == "" {
		return ErrEmptySeller
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(strings.TrimSpace(p.Description))) < MinDescriptionLength {
		return ErrShortDescription
	}
	if !validPrice(p.Price) {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusInactive || s == StatusActive
}

// Eligible reports whether buyers may purchase the product.
func (p *Product) Eligible() bool {
	return p.Status == StatusActive && p.Stock > 0
}

// OwnedBy reports whether email is the product's seller.
func (p *Product) OwnedBy(email string) bool {
	return email != "" && strings.EqualFold(strings.TrimSpace(p.SellerEmail), strings.TrimSpace(email))
}

// CheckPurchase validates a purchase of qty units against the current state,
// in the order callers report failures: quantity, status, stock. A sold-out
// active product reports ErrInsufficientStock so that a buyer who lost the
// last units to another buyer sees the same error as one who asked for too many.
func (p *Product) CheckPurchase(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if p.Status != StatusActive {
		return ErrInactive
	}
	if qty > p.Stock {
		return ErrInsufficientStock
	}
	return nil
}

// TakeStock removes qty units after CheckPurchase succeeds.
func (p *Product) TakeStock(qty int) error {
	if err := p.CheckPurchase(qty); err != nil {
		return err
	}
	p.Stock -= qty
	return nil
}

// ParsePrice strictly parses a decimal price string. Amounts finer than a
// cent are rejected.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !validPrice(price) {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}

func validPrice(price decimal.Decimal) bool {
	return price.IsPositive() && price.Equal(price.Truncate(2))
}
