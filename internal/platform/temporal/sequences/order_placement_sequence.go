package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-marketplace/internal/platform/temporal/activities/orders"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
)

// RunOrderPlacementSequence records the order, reserves its stock, and
// deletes the order again when the reservation fails.
func RunOrderPlacementSequence(ctx workflow.Context, input ordersports.PlaceOrderInput) (*ordersports.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "productId", input.ProductID)
	// Placement writes run exactly once; a retried decrement could take stock twice.
	writeOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	cleanupOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	writeCtx := workflow.WithActivityOptions(ctx, writeOptions)
	cleanupCtx := workflow.WithActivityOptions(ctx, cleanupOptions)

	var placement ordersports.Placement
	if err := workflow.ExecuteActivity(writeCtx, orderactivities.RecordOrderActivityName, input).Get(ctx, &placement); err != nil {
		logger.Error("order placement sequence failed to record order", "productId", input.ProductID, "error", err)
		return nil, err
	}
	if placement.Order == nil || placement.Order.Entity == nil {
		return nil, errors.New("record order returned no order")
	}
	order := placement.Order.Entity
	if placement.Replayed {
		logger.Info("order placement sequence replayed", "orderId", order.ID)
		return placement.Order, nil
	}

	if err := workflow.ExecuteActivity(writeCtx, orderactivities.ReserveStockActivityName, order).Get(ctx, nil); err != nil {
		logger.Warn("order placement sequence rolling back order", "orderId", order.ID, "error", err)
		if derr := workflow.ExecuteActivity(cleanupCtx, orderactivities.DiscardOrderActivityName, order.ID).Get(ctx, nil); derr != nil {
			logger.Error("order placement sequence rollback failed", "orderId", order.ID, "error", derr)
			return nil, temporal.NewNonRetryableApplicationError(
				"order rollback failed after stock reservation failure",
				apperrors.KindName(apperrors.ErrPersistence),
				errors.Join(err, derr),
			)
		}
		return nil, err
	}

	var projection ordersports.OrderProjection
	if err := workflow.ExecuteActivity(cleanupCtx, orderactivities.FinalizeOrderActivityName, order.ID, placement.IdempotencyKey).Get(ctx, &projection); err != nil {
		logger.Error("order placement sequence failed to finalize", "orderId", order.ID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &projection, nil
}
