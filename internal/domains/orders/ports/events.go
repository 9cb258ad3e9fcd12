package ports

import (
	"context"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
)

// EventPublisher delivers committed order events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
