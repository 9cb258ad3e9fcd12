package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once an order and its stock decrement are committed.
type OrderPlaced struct {
	BaseEvent
	OrderID     string
	BuyerEmail  string
	SellerEmail string
	ProductID   string
	Quantity    int
	Total       decimal.Decimal
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// AggregateID returns the order identifier.
func (e OrderPlaced) AggregateID() string {
	return e.OrderID
}

// OrderStatusChanged is raised when a seller advances or cancels an order.
type OrderStatusChanged struct {
	BaseEvent
	OrderID     string
	SellerEmail string
	FromStatus  Status
	ToStatus    Status
	NeedsReview bool
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// AggregateID returns the order identifier.
func (e OrderStatusChanged) AggregateID() string {
	return e.OrderID
}

// NewOrderPlaced builds the placement event for o.
func NewOrderPlaced(o *Order, at time.Time) OrderPlaced {
	return OrderPlaced{
		BaseEvent:   BaseEvent{Timestamp: at},
		OrderID:     o.ID,
		BuyerEmail:  o.BuyerEmail,
		SellerEmail: o.SellerEmail,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		Total:       o.Total,
	}
}

// NewOrderStatusChanged builds the transition event for o after it moved from from.
func NewOrderStatusChanged(o *Order, from Status, at time.Time) OrderStatusChanged {
	return OrderStatusChanged{
		BaseEvent:   BaseEvent{Timestamp: at},
		OrderID:     o.ID,
		SellerEmail: o.SellerEmail,
		FromStatus:  from,
		ToStatus:    o.Status,
		NeedsReview: NeedsReview(from, o.Status),
	}
}
