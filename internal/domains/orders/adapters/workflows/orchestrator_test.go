package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
	"github.com/Apurer/go-gin-marketplace/internal/shared/projection"
)

type stubService struct {
	ports.Service
	got ports.PlaceOrderInput
}

func (s *stubService) PlaceOrder(_ context.Context, input ports.PlaceOrderInput) (*ports.OrderProjection, error) {
	s.got = input
	return projection.New(&domain.Order{ID: "o-1"}, time.Time{}, time.Time{}), nil
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	svc := &stubService{}
	o := NewInlineOrderWorkflows(svc)
	placed, err := o.PlaceOrder(context.Background(), ports.PlaceOrderInput{ProductID: "p-1", Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "o-1", placed.Entity.ID)
	require.Equal(t, "p-1", svc.got.ProductID)

	var unset *InlineOrderWorkflows
	_, err = unset.PlaceOrder(context.Background(), ports.PlaceOrderInput{})
	require.Error(t, err)
}

func TestBuildOrderPlacementWorkflowID_IdempotencyKeyIsScopedToBuyer(t *testing.T) {
	a := ports.PlaceOrderInput{Buyer: identity.Identity{Email: "a@example.com"}, ProductID: "p-1", IdempotencyKey: "k1"}
	b := a
	b.Buyer.Email = "b@example.com"

	idA := buildOrderPlacementWorkflowID(a, "trace")
	require.True(t, strings.HasPrefix(idA, "order-placement-idem-"))
	require.Equal(t, idA, buildOrderPlacementWorkflowID(a, "other-trace"))
	require.NotEqual(t, idA, buildOrderPlacementWorkflowID(b, "trace"))

	a.IdempotencyKey = ""
	require.Equal(t, "order-placement-p-1-trace", buildOrderPlacementWorkflowID(a, "trace"))
}

func TestFromWorkflowError_RestoresKind(t *testing.T) {
	err := fromWorkflowError(temporal.NewNonRetryableApplicationError("not enough", "InsufficientStock", nil))
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	err = fromWorkflowError(errors.New("connection reset"))
	require.ErrorIs(t, err, apperrors.ErrPersistence)
}
