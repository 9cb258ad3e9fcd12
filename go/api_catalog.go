package marketplaceserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

// CatalogAPI wires HTTP transport with the catalog bounded context.
type CatalogAPI struct {
	service catalogports.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /v1/products
// Browse purchasable products with optional search, category, and price filters
func (api *CatalogAPI) Browse(c *gin.Context) {
	input := catalogports.BrowseInput{
		Term:         c.Query("search"),
		Category:     c.Query("category"),
		PriceBracket: c.Query("price"),
	}
	result, err := api.service.Browse(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromBrowseResult(result))
}

// Get /v1/products/:productId
// Find product by ID
func (api *CatalogAPI) GetProduct(c *gin.Context) {
	product, err := api.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionTag(c, product)
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /v1/products
// List a new product for sale
func (api *CatalogAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), actor(c), producthttpmapper.ToProductInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionTag(c, created)
	c.JSON(http.StatusCreated, producthttpmapper.FromProjection(created))
}

// Put /v1/products/:productId
// Update one of the caller's products
func (api *CatalogAPI) UpdateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := producthttpmapper.ToProductInput(payload)
	input.IfMatch = versionFromIfMatch(c.GetHeader("If-Match"))
	updated, err := api.service.UpdateProduct(c.Request.Context(), actor(c), c.Param("productId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionTag(c, updated)
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(updated))
}

// Delete /v1/products/:productId
// Delete one of the caller's products
func (api *CatalogAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), actor(c), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/seller/products
// List the caller's products in every status
func (api *CatalogAPI) ListSellerProducts(c *gin.Context) {
	products, err := api.service.ListSellerProducts(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjections(products))
}

func setVersionTag(c *gin.Context, product *catalogports.ProductProjection) {
	c.Header("ETag", strconv.Quote(catalogports.VersionTag(product)))
}

// versionFromIfMatch accepts a quoted or bare tag and ignores the wildcard.
func versionFromIfMatch(header string) string {
	tag := strings.TrimSpace(header)
	if tag == "*" {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(tag, "W/"), `"`)
}
