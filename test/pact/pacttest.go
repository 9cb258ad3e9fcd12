//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "marketplace-api"
	ConsumerName = "marketplace-storefront"

	StateCatalogBaseline = "catalog baseline"
	StateProductListed   = "product p-101 is listed"
	StateProductMissing  = "no product p-404"
	StateBuyerCanOrder   = "buyer is signed in and product p-101 is in stock"
	StateProductSoldOut  = "buyer is signed in and product p-101 is sold out"
)

const (
	ListedProductID  = "p-101"
	MissingProductID = "p-404"

	SellerEmail = "pact.seller@example.com"
	BuyerEmail  = "pact.buyer@example.com"
	BuyerToken  = "pact-buyer-token"
)

const (
	exampleProductName = "Pact Oak Chair"
	exampleDescription = "Solid oak chair for contract testing"
	exampleCategory    = "Furniture"
	examplePrice       = "42.50"
	exampleImageURL    = "https://example.pact/products/oak-chair.png"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProduct is the listing both sides agree on.
type ExampleProduct struct {
	ID          string
	SellerEmail string
	Name        string
	Description string
	ImageURL    string
	Price       string
	Stock       int
	Category    string
}

// ExampleListedProduct provides stable test data for catalog interactions.
func ExampleListedProduct() ExampleProduct {
	return ExampleProduct{
		ID:          ListedProductID,
		SellerEmail: SellerEmail,
		Name:        exampleProductName,
		Description: exampleDescription,
		ImageURL:    exampleImageURL,
		Price:       examplePrice,
		Stock:       5,
		Category:    exampleCategory,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
