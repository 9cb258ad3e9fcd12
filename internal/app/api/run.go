package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	marketplaceserver "github.com/Apurer/go-gin-marketplace/go"

	catalogobs "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application"
	ordersobs "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	statsobs "github.com/Apurer/go-gin-marketplace/internal/domains/stats/adapters/observability"
	statsapp "github.com/Apurer/go-gin-marketplace/internal/domains/stats/application"
	usersobs "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/observability"
	usersapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
)

const serviceName = "marketplace-api"

// Run boots the marketplace HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, closeStores := OpenStores(ctx, cfg, logger)
	defer closeStores()
	events, closeEvents := OpenEventPublisher(cfg, serviceName, logger)
	defer closeEvents()

	catalogService := catalogobs.New(
		catalogapp.NewService(stores.Products),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		NewOrderService(stores, events, true),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	userService := usersobs.New(
		usersapp.NewService(stores.Users, stores.Sessions, usersapp.WithSessionTTL(cfg.SessionTTL)),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	statsService := statsobs.New(
		statsapp.NewService(stores.Products, stores.Orders),
		statsobs.WithLogger(logger),
		statsobs.WithTracer(instruments.Tracer("internal.stats.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if cfg.TemporalDisabled {
		logger.Info("Temporal disabled via TEMPORAL_DISABLED, placing orders inline")
	} else if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := marketplaceserver.ApiHandleFunctions{
		AuthAPI:       marketplaceserver.NewAuthAPI(userService),
		CatalogAPI:    marketplaceserver.NewCatalogAPI(catalogService),
		OrderAPI:      marketplaceserver.NewOrderAPI(orderService, orderWorkflows),
		StatsAPI:      marketplaceserver.NewStatsAPI(statsService),
		Authenticator: userService,
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := marketplaceserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("marketplace API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("marketplace API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down marketplace API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
