package marketplaceserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application"
	ordersmemory "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-marketplace/internal/domains/orders/application"
	statsapp "github.com/Apurer/go-gin-marketplace/internal/domains/stats/application"
	usersmemory "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var productSeq, orderSeq atomic.Int64
	products := catalogmemory.NewRepository()
	orders := ordersmemory.NewRepository()
	catalogService := catalogapp.NewService(products, catalogapp.WithIDGenerator(func() string {
		return fmt.Sprintf("p-%d", productSeq.Add(1))
	}))
	orderService := ordersapp.NewService(orders, products,
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
		ordersapp.WithIDGenerator(func() string { return fmt.Sprintf("o-%d", orderSeq.Add(1)) }),
	)
	userService := usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore())

	handlers := ApiHandleFunctions{
		AuthAPI:       NewAuthAPI(userService),
		CatalogAPI:    NewCatalogAPI(catalogService),
		OrderAPI:      NewOrderAPI(orderService, ordersworkflows.NewInlineOrderWorkflows(orderService)),
		StatsAPI:      NewStatsAPI(statsapp.NewService(products, orders)),
		Authenticator: userService,
	}
	router := NewRouterWithGinEngine(gin.New(), handlers)
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUp(email, role string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "secret", "name": "Test " + role, "role": role,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "password": "secret"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(s.t, session.Token)
	return session.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type problemBody struct {
	Status     int            `json:"status"`
	Extensions map[string]any `json:"extensions"`
}

func TestMarketplaceFlow(t *testing.T) {
	s := newTestServer(t)
	seller := s.signUp("seller@example.com", "seller")
	buyerA := s.signUp("a@example.com", "buyer")
	buyerB := s.signUp("b@example.com", "buyer")

	rec := s.do(http.MethodPost, "/v1/products", seller, map[string]any{
		"name": "Oak Chair", "description": "Solid oak dining chair", "price": "10.00", "stock": 2, "category": "Furniture",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, rec)
	productID := product["id"].(string)

	rec = s.do(http.MethodGet, "/v1/products?category=Furniture&price=0-50", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decode[struct {
		Products   []map[string]any `json:"products"`
		Categories []string         `json:"categories"`
	}](t, rec)
	require.Len(t, catalog.Products, 1)
	require.Equal(t, []string{"Furniture"}, catalog.Categories)

	rec = s.do(http.MethodPost, "/v1/orders", buyerA, map[string]any{"productId": productID, "quantity": 2}, IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	require.Equal(t, "20.00", order["totalPrice"])
	require.Equal(t, "pending", order["status"])
	orderID := order["id"].(string)

	rec = s.do(http.MethodPost, "/v1/orders", buyerA, map[string]any{"productId": productID, "quantity": 2}, IdempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, orderID, decode[map[string]any](t, rec)["id"])

	rec = s.do(http.MethodPost, "/v1/orders", buyerB, map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "InsufficientStock", decode[problemBody](t, rec).Extensions["kind"])

	rec = s.do(http.MethodPatch, "/v1/orders/"+orderID+"/status", seller, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(http.MethodPatch, "/v1/orders/"+orderID+"/status", seller, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "confirmed", decode[map[string]any](t, rec)["status"])

	rec = s.do(http.MethodGet, "/v1/seller/stats", seller, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	require.Equal(t, "20.00", stats["totalRevenue"])
	require.EqualValues(t, 1, stats["totalOrders"])
	require.EqualValues(t, 0, stats["pendingOrders"])

	rec = s.do(http.MethodDelete, "/v1/products/"+productID, seller, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/v1/orders", buyerA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]map[string]any](t, rec)
	require.Len(t, history, 1)
	placeholder := history[0]["product"].(map[string]any)
	require.Equal(t, "Product "+productID, placeholder["name"])
	require.Equal(t, true, placeholder["missing"])
}

func TestRoutes_ProductUpdateNeedsCurrentVersion(t *testing.T) {
	s := newTestServer(t)
	seller := s.signUp("seller@example.com", "seller")
	buyer := s.signUp("a@example.com", "buyer")

	listing := map[string]any{
		"name": "Oak Chair", "description": "Solid oak dining chair", "price": "10.00", "stock": 5, "category": "Furniture",
	}
	rec := s.do(http.MethodPost, "/v1/products", seller, listing)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	productID := decode[map[string]any](t, rec)["id"].(string)
	seen := rec.Header().Get("ETag")
	require.NotEmpty(t, seen)

	rec = s.do(http.MethodPost, "/v1/orders", buyer, map[string]any{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	listing["price"] = "12.00"
	rec = s.do(http.MethodPut, "/v1/products/"+productID, seller, listing, "If-Match", seen)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	require.Equal(t, "Conflict", decode[problemBody](t, rec).Extensions["kind"])

	rec = s.do(http.MethodGet, "/v1/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 3, decode[map[string]any](t, rec)["stock"])
	current := rec.Header().Get("ETag")
	require.NotEqual(t, seen, current)

	listing["stock"] = 3
	rec = s.do(http.MethodPut, "/v1/products/"+productID, seller, listing, "If-Match", current)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "12.00", decode[map[string]any](t, rec)["price"])
}

func TestRoutes_EnforceAuthentication(t *testing.T) {
	s := newTestServer(t)
	buyer := s.signUp("a@example.com", "buyer")
	seller := s.signUp("s@example.com", "seller")

	rec := s.do(http.MethodPost, "/v1/orders", "", map[string]any{"productId": "p-1", "quantity": 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = s.do(http.MethodPost, "/v1/orders", "bogus", map[string]any{"productId": "p-1", "quantity": 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/products", buyer, map[string]any{"name": "x"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/v1/orders", seller, map[string]any{"productId": "p-1", "quantity": 1})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/logout", buyer, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/v1/orders", buyer, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_ValidationAndMissingResources(t *testing.T) {
	s := newTestServer(t)
	seller := s.signUp("s@example.com", "seller")
	buyer := s.signUp("a@example.com", "buyer")

	rec := s.do(http.MethodPost, "/v1/products", seller, map[string]any{
		"name": "Lamp", "description": "short", "price": "5.00", "stock": 1, "category": "Home",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "InvalidInput", decode[problemBody](t, rec).Extensions["kind"])

	rec = s.do(http.MethodGet, "/v1/products?price=cheap", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/v1/products/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/v1/orders", buyer, map[string]any{"productId": "nope", "quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{"email": "s@example.com", "password": "secret", "name": "S", "role": "seller"})
	require.Equal(t, http.StatusConflict, rec.Code)
}
