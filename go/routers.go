package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Access says who may call a route.
type Access int

const (
	// Public routes need no token.
	Public Access = iota
	// Authenticated routes need any valid token.
	Authenticated
	// BuyerOnly routes need a buyer token.
	BuyerOnly
	// SellerOnly routes need a seller token.
	SellerOnly
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Access is enforced by RequireIdentity before the handler runs.
	Access Access
}

// ApiHandleFunctions bundles the handlers of every API group.
type ApiHandleFunctions struct {
	AuthAPI    AuthAPI
	CatalogAPI CatalogAPI
	OrderAPI   OrderAPI
	StatsAPI   StatsAPI
	// Authenticator resolves bearer tokens for protected routes.
	Authenticator Authenticator
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{}
		if route.Access != Public {
			handlers = append(handlers, RequireIdentity(handleFunctions.Authenticator, route.Access.roles()...))
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func (a Access) roles() []identity.Role {
	switch a {
	case BuyerOnly:
		return []identity.Role{identity.RoleBuyer}
	case SellerOnly:
		return []identity.Role{identity.RoleSeller}
	default:
		return nil
	}
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Register", http.MethodPost, "/v1/auth/register", handleFunctions.AuthAPI.Register, Public},
		{"Login", http.MethodPost, "/v1/auth/login", handleFunctions.AuthAPI.Login, Public},
		{"Logout", http.MethodPost, "/v1/auth/logout", handleFunctions.AuthAPI.Logout, Authenticated},
		{"Browse", http.MethodGet, "/v1/products", handleFunctions.CatalogAPI.Browse, Public},
		{"GetProduct", http.MethodGet, "/v1/products/:productId", handleFunctions.CatalogAPI.GetProduct, Public},
		{"CreateProduct", http.MethodPost, "/v1/products", handleFunctions.CatalogAPI.CreateProduct, SellerOnly},
		{"UpdateProduct", http.MethodPut, "/v1/products/:productId", handleFunctions.CatalogAPI.UpdateProduct, SellerOnly},
		{"DeleteProduct", http.MethodDelete, "/v1/products/:productId", handleFunctions.CatalogAPI.DeleteProduct, SellerOnly},
		{"ListSellerProducts", http.MethodGet, "/v1/seller/products", handleFunctions.CatalogAPI.ListSellerProducts, SellerOnly},
		{"ListSellerOrders", http.MethodGet, "/v1/seller/orders", handleFunctions.OrderAPI.ListSellerOrders, SellerOnly},
		{"SellerStats", http.MethodGet, "/v1/seller/stats", handleFunctions.StatsAPI.SellerStats, SellerOnly},
		{"PlaceOrder", http.MethodPost, "/v1/orders", handleFunctions.OrderAPI.PlaceOrder, BuyerOnly},
		{"ListBuyerOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListBuyerOrders, BuyerOnly},
		{"GetOrder", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrder, Authenticated},
		{"TransitionStatus", http.MethodPatch, "/v1/orders/:orderId/status", handleFunctions.OrderAPI.TransitionStatus, SellerOnly},
	}
}
