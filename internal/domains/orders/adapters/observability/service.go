package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.product_id", input.ProductID),
			attribute.Int("order.quantity", input.Quantity),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.product_id", input.ProductID), slog.Int("order.quantity", input.Quantity))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, err)
		if isExpected(err) {
			span.SetAttributes(attribute.String("order.rejection", apperrors.KindName(apperrors.Kind(err))))
			s.logInfo(ctx, "order rejected", slog.String("order.product_id", input.ProductID), slog.String("reason", err.Error()))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.product_id", input.ProductID))
	}
	s.metrics.recordPlaced(ctx)
	span.SetAttributes(attribute.String("order.id", result.Entity.ID))
	s.logInfo(ctx, "order placed",
		slog.String("order.id", result.Entity.ID),
		slog.String("order.total", result.Entity.Total.StringFixed(2)),
	)
	return result, nil
}

func (s *Service) TransitionStatus(ctx context.Context, actor identity.Identity, orderID string, status string) (*ordersports.OrderProjection, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.TransitionStatus",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("order.target_status", status)))
	defer span.End()

	s.logInfo(ctx, "transitioning order", slog.String("order.id", orderID), slog.String("order.target_status", status))
	result, err := s.inner.TransitionStatus(ctx, actor, orderID, status)
	if err != nil {
		if isExpected(err) {
			s.logInfo(ctx, "order transition rejected", slog.String("order.id", orderID), slog.String("reason", err.Error()))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to transition order", slog.String("order.id", orderID))
	}
	s.metrics.recordTransition(ctx, string(result.Entity.Status))
	s.logInfo(ctx, "order transitioned", slog.String("order.id", orderID), slog.String("order.status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, actor identity.Identity, orderID string) (*ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return result, nil
}

func (s *Service) ListBuyerOrders(ctx context.Context, actor identity.Identity) ([]ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListBuyerOrders")
	defer span.End()

	result, err := s.inner.ListBuyerOrders(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list buyer orders", slog.String("buyer.email", actor.Email))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) ListSellerOrders(ctx context.Context, actor identity.Identity) ([]ordersports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListSellerOrders")
	defer span.End()

	result, err := s.inner.ListSellerOrders(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list seller orders", slog.String("seller.email", actor.Email))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

// isExpected separates business rejections from faults.
func isExpected(err error) bool {
	return err != nil && !errors.Is(err, apperrors.ErrPersistence) && apperrors.Kind(err) != nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced      metric.Int64Counter
	placementRejected metric.Int64Counter
	statusTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	rejected, _ := m.Int64Counter("orders.service.placement_rejected", metric.WithDescription("Number of placements refused, by reason"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: placed, placementRejected: rejected, statusTransitions: transitions}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	if m.placementRejected != nil {
		m.placementRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", apperrors.KindName(apperrors.Kind(err)))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status string) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", status)))
	}
}

var _ ordersports.Service = (*Service)(nil)
