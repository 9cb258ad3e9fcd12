//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-marketplace/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID          string `json:"id"`
	SellerEmail string `json:"sellerEmail"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Status      int    `json:"status"`
}

type catalogPayload struct {
	Products   []productPayload `json:"products"`
	Categories []string         `json:"categories"`
}

type placeOrderPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderPayload struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"totalPrice"`
	Status     string `json:"status"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleListedProduct()
	productMatcher := matchers.Map{
		"id":          matchers.Like(example.ID),
		"sellerEmail": matchers.Like(example.SellerEmail),
		"name":        matchers.Like(example.Name),
		"description": matchers.Like(example.Description),
		"price":       matchers.Term(example.Price, `^\d+\.\d{2}$`),
		"stock":       matchers.Like(example.Stock),
		"category":    matchers.Like(example.Category),
		"status":      matchers.Like(1),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateProductListed).
		UponReceiving("a request to browse the catalog").
		WithRequest("GET", "/v1/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("category", matchers.S(example.Category))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"products":   matchers.EachLike(productMatcher, 1),
				"categories": matchers.EachLike(example.Category, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductListed).
		UponReceiving("a request to fetch a listed product").
		WithRequest("GET", "/v1/products/"+pacttest.ListedProductID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", "/v1/products/"+pacttest.MissingProductID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBuyerCanOrder).
		UponReceiving("a request to place an order").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.BuyerToken))
			b.JSONBody(matchers.Map{
				"productId": matchers.S(pacttest.ListedProductID),
				"quantity":  matchers.Like(2),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":         matchers.Like("o-1"),
				"productId":  matchers.S(pacttest.ListedProductID),
				"quantity":   matchers.Like(2),
				"totalPrice": matchers.Term("85.00", `^\d+\.\d{2}$`),
				"status":     matchers.S("pending"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductSoldOut).
		UponReceiving("a request to order a sold out product").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", matchers.S("Bearer "+pacttest.BuyerToken))
			b.JSONBody(matchers.Map{
				"productId": matchers.S(pacttest.ListedProductID),
				"quantity":  matchers.Like(1),
			})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-stock"),
				"status": matchers.Like(http.StatusConflict),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		catalog, err := client.Browse(ctx, example.Category)
		if err != nil {
			return fmt.Errorf("browse: %w", err)
		}
		if len(catalog.Products) == 0 {
			return fmt.Errorf("expected at least one product")
		}

		product, err := client.GetProduct(ctx, pacttest.ListedProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.ID != pacttest.ListedProductID {
			return fmt.Errorf("expected product %s, got %+v", pacttest.ListedProductID, product)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %s", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		order, err := client.PlaceOrder(ctx, placeOrderPayload{ProductID: pacttest.ListedProductID, Quantity: 2})
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if order.Status != "pending" {
			return fmt.Errorf("expected pending order, got %+v", order)
		}

		if _, err := client.PlaceOrder(ctx, placeOrderPayload{ProductID: pacttest.ListedProductID, Quantity: 1}); err == nil {
			return fmt.Errorf("expected 409 for sold out product")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusConflict {
			return fmt.Errorf("expected 409, got %d", apiErr.Status())
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) Browse(ctx context.Context, category string) (*catalogPayload, error) {
	var out catalogPayload
	err := c.do(ctx, http.MethodGet, "/v1/products?category="+category, nil, "", &out)
	return &out, err
}

func (c *storefrontClient) GetProduct(ctx context.Context, id string) (*productPayload, error) {
	var out productPayload
	err := c.do(ctx, http.MethodGet, "/v1/products/"+id, nil, "", &out)
	return &out, err
}

func (c *storefrontClient) PlaceOrder(ctx context.Context, payload placeOrderPayload) (*orderPayload, error) {
	var out orderPayload
	err := c.do(ctx, http.MethodPost, "/v1/orders", payload, pacttest.BuyerToken, &out)
	return &out, err
}

func (c *storefrontClient) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
