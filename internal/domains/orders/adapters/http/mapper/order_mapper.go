package mapper

import (
	"time"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// PlaceOrderPayload is the body of a placement request.
type PlaceOrderPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// StatusPayload is the body of a lifecycle transition request.
type StatusPayload struct {
	Status string `json:"status"`
}

// Order is the HTTP representation of an order. Money travels as decimal strings.
type Order struct {
	ID          string    `json:"id"`
	BuyerEmail  string    `json:"buyerEmail"`
	SellerEmail string    `json:"sellerEmail"`
	ProductID   string    `json:"productId"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unitPrice"`
	TotalPrice  string    `json:"totalPrice"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Product is the product summary attached to an order.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

// OrderWithProduct is an order enriched with its product summary.
type OrderWithProduct struct {
	Order
	Product Product `json:"product"`
}

// ToPlaceOrderInput combines the body with the caller and the Idempotency-Key header.
func ToPlaceOrderInput(payload PlaceOrderPayload, buyer identity.Identity, idempotencyKey string) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		Buyer:          buyer,
		ProductID:      payload.ProductID,
		Quantity:       payload.Quantity,
		Notes:          payload.Notes,
		IdempotencyKey: idempotencyKey,
	}
}

// FromDomainOrder maps a domain order into its transport shape.
func FromDomainOrder(o *domain.Order) Order {
	if o == nil {
		return Order{}
	}
	return Order{
		ID:          o.ID,
		BuyerEmail:  o.BuyerEmail,
		SellerEmail: o.SellerEmail,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		UnitPrice:   o.UnitPrice.StringFixed(2),
		TotalPrice:  o.Total.StringFixed(2),
		Status:      string(o.Status),
		Notes:       o.Notes,
	}
}

// FromProjection maps a stored order including its timestamps.
func FromProjection(proj *ports.OrderProjection) Order {
	if proj == nil {
		return Order{}
	}
	out := FromDomainOrder(proj.Entity)
	out.CreatedAt = proj.Metadata.CreatedAt
	out.UpdatedAt = proj.Metadata.UpdatedAt
	return out
}

// FromView maps an enriched order.
func FromView(view ports.OrderView) OrderWithProduct {
	return OrderWithProduct{
		Order: FromProjection(view.Order),
		Product: Product{
			ID:       view.Product.ID,
			Name:     view.Product.Name,
			ImageURL: view.Product.ImageURL,
			Missing:  view.Product.Missing,
		},
	}
}

// FromViews maps a list of enriched orders.
func FromViews(views []ports.OrderView) []OrderWithProduct {
	out := make([]OrderWithProduct, 0, len(views))
	for _, view := range views {
		out = append(out, FromView(view))
	}
	return out
}
