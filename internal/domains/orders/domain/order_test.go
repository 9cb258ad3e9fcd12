package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_TotalIsExact(t *testing.T) {
	order, err := NewOrder("o-1", "buyer@example.com", "seller@example.com", "p-1", 3, decimal.RequireFromString("25.00"), "  gift wrap ")
	require.NoError(t, err)
	require.Equal(t, "75.00", order.Total.StringFixed(2))
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, "gift wrap", order.Notes)

	cents, err := NewOrder("o-2", "buyer@example.com", "seller@example.com", "p-1", 3, decimal.RequireFromString("0.10"), "")
	require.NoError(t, err)
	require.True(t, cents.Total.Equal(decimal.RequireFromString("0.30")))
}

func TestNewOrder_Validation(t *testing.T) {
	price := decimal.NewFromInt(10)
	cases := []struct {
		name    string
		buyer   string
		seller  string
		product string
		qty     int
		price   decimal.Decimal
		want    error
	}{
		{"missing buyer", " ", "s@example.com", "p", 1, price, ErrEmptyBuyer},
		{"missing seller", "b@example.com", "", "p", 1, price, ErrEmptySeller},
		{"missing product", "b@example.com", "s@example.com", "", 1, price, ErrEmptyProduct},
		{"zero quantity", "b@example.com", "s@example.com", "p", 0, price, ErrInvalidQuantity},
		{"negative quantity", "b@example.com", "s@example.com", "p", -2, price, ErrInvalidQuantity},
		{"negative price", "b@example.com", "s@example.com", "p", 1, decimal.NewFromInt(-1), ErrInvalidUnitPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder("o", tc.buyer, tc.seller, tc.product, tc.qty, tc.price, "")
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestOrder_Parties(t *testing.T) {
	order, err := NewOrder("o", "Buyer@Example.com", "seller@example.com", "p", 1, decimal.NewFromInt(1), "")
	require.NoError(t, err)
	require.True(t, order.PlacedBy("buyer@example.com"))
	require.False(t, order.PlacedBy("seller@example.com"))
	require.True(t, order.SoldBy("SELLER@example.com"))
	require.False(t, order.SoldBy(""))
}
