package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateProduct(ctx context.Context, actor identity.Identity, input catalogports.ProductInput) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("seller.email", actor.Email), attribute.String("product.category", input.Category)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("seller.email", actor.Email), slog.String("product.name", input.Name))
	result, err := s.inner.CreateProduct(ctx, actor, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("seller.email", actor.Email))
	}
	s.metrics.recordCreated(ctx, result.Entity.Category)
	span.SetAttributes(attribute.String("product.id", result.Entity.ID))
	s.logInfo(ctx, "product created", slog.String("product.id", result.Entity.ID))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actor identity.Identity, id string, input catalogports.ProductInput) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating product", slog.String("product.id", id))
	result, err := s.inner.UpdateProduct(ctx, actor, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", id), slog.Int("product.stock", result.Entity.Stock))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, actor identity.Identity, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.String("product.id", id))
	if err := s.inner.DeleteProduct(ctx, actor, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) ListSellerProducts(ctx context.Context, actor identity.Identity) ([]*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListSellerProducts", trace.WithAttributes(attribute.String("seller.email", actor.Email)))
	defer span.End()

	result, err := s.inner.ListSellerProducts(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list seller products", slog.String("seller.email", actor.Email))
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) Browse(ctx context.Context, input catalogports.BrowseInput) (*catalogports.BrowseResult, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Browse",
		trace.WithAttributes(
			attribute.String("browse.term", input.Term),
			attribute.String("browse.category", input.Category),
			attribute.String("browse.price_bracket", input.PriceBracket),
		))
	defer span.End()

	result, err := s.inner.Browse(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to browse catalog", slog.String("browse.price_bracket", input.PriceBracket))
	}
	span.SetAttributes(attribute.Int("products.count", len(result.Products)))
	s.metrics.recordBrowse(ctx, len(result.Products))
	return result, nil
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
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
	browseResults   metric.Int64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products listed by sellers"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products removed by sellers"))
	browse, _ := m.Int64Histogram("catalog.service.browse_results", metric.WithDescription("Products returned per catalog browse"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted, browseResults: browse}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category string) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", category)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordBrowse(ctx context.Context, n int) {
	if m.browseResults != nil {
		m.browseResults.Record(ctx, int64(n))
	}
}

var _ catalogports.Service = (*Service)(nil)
