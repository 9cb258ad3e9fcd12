package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyBuyer       = errors.New("buyer email is required")
	ErrEmptySeller      = errors.New("seller email is required")
	ErrEmptyProduct     = errors.New("product reference is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
)

// Order is a buyer's purchase of a single product. Seller email and unit
// price are snapshots taken at placement, so later product edits never reach
// a stored order.
type Order struct {
	ID          string
	BuyerEmail  string
	SellerEmail string
	ProductID   string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	Status      Status
	Notes       string
}

// NewOrder builds a pending order and fixes its total to quantity x unitPrice.
func NewOrder(id, buyerEmail, sellerEmail, productID string, quantity int, unitPrice decimal.Decimal, notes string) (*Order, error) {
	o := &Order{
		ID:          strings.TrimSpace(id),
		BuyerEmail:  strings.TrimSpace(buyerEmail),
		SellerEmail: strings.TrimSpace(sellerEmail),
		ProductID:   strings.TrimSpace(productID),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Status:      StatusPending,
		Notes:       strings.TrimSpace(notes),
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	o.Total = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return o, nil
}

func (o *Order) validate() error {
	switch {
	case o.BuyerEmail == "":
		return ErrEmptyBuyer
	case o.SellerEmail == "":
		return ErrEmptySeller
	case o.ProductID == "":
		return ErrEmptyProduct
	case o.Quantity <= 0:
		return ErrInvalidQuantity
	case o.UnitPrice.IsNegative():
		return ErrInvalidUnitPrice
	}
	return nil
}

// PlacedBy reports whether email belongs to the buyer.
func (o *Order) PlacedBy(email string) bool {
	return sameEmail(o.BuyerEmail, email)
}

// SoldBy reports whether email belongs to the seller.
func (o *Order) SoldBy(email string) bool {
	return sameEmail(o.SellerEmail, email)
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

func sameEmail(a, b string) bool {
	b = strings.TrimSpace(b)
	return b != "" && strings.EqualFold(strings.TrimSpace(a), b)
}
