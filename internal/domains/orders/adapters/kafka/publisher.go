package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Envelope wraps every order event on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    string          `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

type orderPlacedPayload struct {
	OrderID     string `json:"order_id"`
	BuyerEmail  string `json:"buyer_email"`
	SellerEmail string `json:"seller_email"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
}

type statusChangedPayload struct {
	OrderID     string `json:"order_id"`
	SellerEmail string `json:"seller_email"`
	From        string `json:"from"`
	To          string `json:"to"`
	NeedsReview bool   `json:"needs_review"`
}

// Publisher writes order events to Kafka keyed by order id.
type Publisher struct {
	writer   MessageWriter
	producer string
	logger   *slog.Logger
}

// NewPublisher wires a writer. producer names this service in the envelope.
func NewPublisher(writer MessageWriter, producer string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, producer: producer, logger: logger}
}

// Publish encodes and writes events. Failures are logged and returned.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		msg, err := p.encode(ctx, evt)
		if err != nil {
			p.logFailure(ctx, evt, err)
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logFailure(ctx, events[0], err)
		return err
	}
	return nil
}

func (p *Publisher) encode(ctx context.Context, evt domain.Event) (kafkago.Message, error) {
	payload, err := encodePayload(evt)
	if err != nil {
		return kafkago.Message{}, err
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     evt.EventName(),
		EventVersion:  1,
		OccurredAt:    evt.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Producer:      p.producer,
		TraceID:       traceID(ctx),
		CorrelationID: evt.AggregateID(),
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   []byte(evt.AggregateID()),
		Value: value,
		Time:  evt.OccurredAt(),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.EventName())},
		},
	}, nil
}

func encodePayload(evt domain.Event) (json.RawMessage, error) {
	switch e := evt.(type) {
	case domain.OrderPlaced:
		return json.Marshal(orderPlacedPayload{
			OrderID:     e.OrderID,
			BuyerEmail:  e.BuyerEmail,
			SellerEmail: e.SellerEmail,
			ProductID:   e.ProductID,
			Quantity:    e.Quantity,
			Total:       e.Total.StringFixed(2),
		})
	case domain.OrderStatusChanged:
		return json.Marshal(statusChangedPayload{
			OrderID:     e.OrderID,
			SellerEmail: e.SellerEmail,
			From:        string(e.FromStatus),
			To:          string(e.ToStatus),
			NeedsReview: e.NeedsReview,
		})
	}
	return nil, fmt.Errorf("unsupported order event %T", evt)
}

func (p *Publisher) logFailure(ctx context.Context, evt domain.Event, err error) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
		slog.String("event.type", evt.EventName()),
		slog.String("order.id", evt.AggregateID()),
		slog.String("error", err.Error()),
	)
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
