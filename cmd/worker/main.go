package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-marketplace/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "marketplace-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, closeStores := api.OpenStores(ctx, cfg, logger)
	defer closeStores()
	events, closeEvents := api.OpenEventPublisher(cfg, serviceName, logger)
	defer closeEvents()
	// Each activity is its own unit of work; the workflow compensates instead of a transaction.
	orderService := api.NewOrderService(stores, events, false)
	orderActivities := orderactivities.NewActivities(orderService)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.RecordOrder, activity.RegisterOptions{Name: orderactivities.RecordOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.ReserveStock, activity.RegisterOptions{Name: orderactivities.ReserveStockActivityName})
	w.RegisterActivityWithOptions(orderActivities.DiscardOrder, activity.RegisterOptions{Name: orderactivities.DiscardOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.FinalizeOrder, activity.RegisterOptions{Name: orderactivities.FinalizeOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
