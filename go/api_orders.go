package marketplaceserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets buyers retry a placement without ordering twice.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator places orders through the service directly.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Place an order for a product
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	input := orderhttpmapper.ToPlaceOrderInput(payload, actor(c), key)
	placed, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromProjection(placed))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordersports.PlaceOrderInput) (*ordersports.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /v1/orders
// List the caller's orders
func (api *OrderAPI) ListBuyerOrders(c *gin.Context) {
	views, err := api.service.ListBuyerOrders(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromViews(views))
}

// Get /v1/orders/:orderId
// Find an order the caller bought or sold
func (api *OrderAPI) GetOrder(c *gin.Context) {
	view, err := api.service.GetOrder(c.Request.Context(), actor(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromView(*view))
}

// Patch /v1/orders/:orderId/status
// Move an order along its lifecycle
func (api *OrderAPI) TransitionStatus(c *gin.Context) {
	var payload orderhttpmapper.StatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.TransitionStatus(c.Request.Context(), actor(c), c.Param("orderId"), payload.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromProjection(updated))
}

// Get /v1/seller/orders
// List orders for the caller's products
func (api *OrderAPI) ListSellerOrders(c *gin.Context) {
	views, err := api.service.ListSellerOrders(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromViews(views))
}
