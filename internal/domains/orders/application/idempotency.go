package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

type normalizedPlaceOrderInput struct {
	Buyer     string `json:"buyer"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// FingerprintPlaceOrder builds a deterministic hash of the placement request (excluding the idempotency key).
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(normalizedPlaceOrderInput{
		Buyer:     strings.ToLower(strings.TrimSpace(input.Buyer.Email)),
		ProductID: strings.TrimSpace(input.ProductID),
		Quantity:  input.Quantity,
		Notes:     strings.TrimSpace(input.Notes),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// ScopedIdempotencyKey places a client key in the buyer's own key space.
func ScopedIdempotencyKey(buyerEmail, key string) string {
	return strings.ToLower(strings.TrimSpace(buyerEmail)) + "|" + strings.TrimSpace(key)
}
