package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-marketplace/internal/domains/stats/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/stats/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/stats/adapters/observability/service"

// Service decorates the stats service with tracing and logging.
type Service struct {
	inner  ports.Service
	tracer trace.Tracer
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) SellerStats(ctx context.Context, actor identity.Identity) (*domain.SellerStats, error) {
	ctx, span := s.tracer.Start(ctx, "StatsService.SellerStats")
	defer span.End()
	stats, err := s.inner.SellerStats(ctx, actor)
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", apperrors.KindName(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to compute seller stats", slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("stats.total_products", stats.TotalProducts),
		attribute.Int("stats.total_orders", stats.TotalOrders),
	)
	return stats, nil
}

var _ ports.Service = (*Service)(nil)
