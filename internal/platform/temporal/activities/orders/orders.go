package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
)

const (
	// RecordOrderActivityName validates the purchase and writes the pending order.
	RecordOrderActivityName = "orders.activities.RecordOrder"
	// ReserveStockActivityName takes the ordered quantity from the product.
	ReserveStockActivityName = "orders.activities.ReserveStock"
	// DiscardOrderActivityName removes an order whose stock could not be reserved.
	DiscardOrderActivityName = "orders.activities.DiscardOrder"
	// FinalizeOrderActivityName publishes the placement and returns the stored order.
	FinalizeOrderActivityName = "orders.activities.FinalizeOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	steps ordersports.PlacementSteps
}

// NewActivities wires the placement steps into the Temporal activities bundle.
func NewActivities(steps ordersports.PlacementSteps) *Activities {
	return &Activities{steps: steps}
}

// RecordOrder writes the pending order, or returns the order an earlier
// request with the same idempotency key produced.
func (a *Activities) RecordOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersports.Placement, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("order activities not initialized", "productId", input.ProductID)
		return nil, errors.New("order activities not initialized")
	}
	logger.Info("RecordOrder activity started", "productId", input.ProductID, "quantity", input.Quantity)
	placement, err := a.steps.RecordOrder(ctx, input)
	if err != nil {
		logger.Error("RecordOrder activity failed", "productId", input.ProductID, "error", err)
		return nil, toActivityError(err)
	}
	logger.Info("RecordOrder activity completed", "orderId", placement.Order.Entity.ID, "replayed", placement.Replayed)
	return placement, nil
}

// ReserveStock decrements the product stock for a recorded order.
func (a *Activities) ReserveStock(ctx context.Context, order *domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("order activities not initialized")
	}
	if order == nil {
		return temporal.NewNonRetryableApplicationError("order is required", apperrors.KindName(apperrors.ErrInvalidInput), nil)
	}
	logger.Info("ReserveStock activity started", "orderId", order.ID, "productId", order.ProductID)
	if err := a.steps.ReserveStock(ctx, order); err != nil {
		logger.Error("ReserveStock activity failed", "orderId", order.ID, "error", err)
		return toActivityError(err)
	}
	logger.Info("ReserveStock activity completed", "orderId", order.ID)
	return nil
}

// DiscardOrder deletes a recorded order. It is safe to retry.
func (a *Activities) DiscardOrder(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("order activities not initialized")
	}
	logger.Info("DiscardOrder activity started", "orderId", orderID)
	if err := a.steps.DiscardOrder(ctx, orderID); err != nil {
		logger.Error("DiscardOrder activity failed", "orderId", orderID, "error", err)
		return err
	}
	logger.Info("DiscardOrder activity completed", "orderId", orderID)
	return nil
}

// FinalizeOrder commits the idempotency key, announces the placement and
// loads the committed order.
func (a *Activities) FinalizeOrder(ctx context.Context, orderID, idempotencyKey string) (*ordersports.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return nil, errors.New("order activities not initialized")
	}
	projection, err := a.steps.FinalizeOrder(ctx, orderID, idempotencyKey)
	if err != nil {
		logger.Error("FinalizeOrder activity failed", "orderId", orderID, "error", err)
		return nil, toActivityError(err)
	}
	logger.Info("FinalizeOrder activity completed", "orderId", orderID)
	return projection, nil
}

// toActivityError carries the error kind across the Temporal boundary as the
// application error type. Store failures stay retryable.
func toActivityError(err error) error {
	name := apperrors.KindName(err)
	switch {
	case name == "":
		return err
	case errors.Is(err, apperrors.ErrPersistence):
		return temporal.NewApplicationErrorWithCause(err.Error(), name, err)
	default:
		return temporal.NewNonRetryableApplicationError(err.Error(), name, err)
	}
}
