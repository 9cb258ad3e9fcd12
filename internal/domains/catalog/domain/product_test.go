package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_ValidatesListing(t *testing.T) {
	price := decimal.RequireFromString("25.00")
	cases := []struct {
		name    string
		build   func() (*Product, error)
		wantErr error
	}{
		{"valid", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", price, 3, "Kitchen", StatusActive)
		}, nil},
		{"missing seller", func() (*Product, error) {
			return NewProduct("p1", " ", "Kettle", "Stainless steel kettle", "", price, 3, "Kitchen", StatusActive)
		}, ErrEmptySeller},
		{"missing name", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "", "Stainless steel kettle", "", price, 3, "Kitchen", StatusActive)
		}, ErrEmptyName},
		{"short description", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "short", "", price, 3, "Kitchen", StatusActive)
		}, ErrShortDescription},
		{"zero price", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", decimal.Zero, 3, "Kitchen", StatusActive)
		}, ErrInvalidPrice},
		{"sub-cent price", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", decimal.RequireFromString("10.005"), 3, "Kitchen", StatusActive)
		}, ErrInvalidPrice},
		{"negative stock", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", price, -1, "Kitchen", StatusActive)
		}, ErrNegativeStock},
		{"missing category", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", price, 3, "", StatusActive)
		}, ErrEmptyCategory},
		{"unknown status", func() (*Product, error) {
			return NewProduct("p1", "s@example.com", "Kettle", "Stainless steel kettle", "", price, 3, "Kitchen", Status(7))
		}, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.build()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Nil(t, p)
				return
			}
			require.NoError(t, err)
			require.True(t, p.Eligible())
		})
	}
}

func TestProduct_TakeStock(t *testing.T) {
	p := &Product{Price: decimal.NewFromInt(10), Stock: 2, Status: StatusActive}

	require.ErrorIs(t, p.TakeStock(0), ErrInvalidQuantity)
	require.ErrorIs(t, p.TakeStock(3), ErrInsufficientStock)
	require.NoError(t, p.TakeStock(2))
	require.Equal(t, 0, p.Stock)
	require.False(t, p.Eligible())
	require.ErrorIs(t, p.TakeStock(1), ErrInsufficientStock)
}

func TestProduct_CheckPurchaseOrder(t *testing.T) {
	inactive := &Product{Stock: 5, Status: StatusInactive}
	require.ErrorIs(t, inactive.CheckPurchase(-1), ErrInvalidQuantity)
	require.ErrorIs(t, inactive.CheckPurchase(1), ErrInactive)
}

func TestProduct_OwnedBy(t *testing.T) {
	p := &Product{SellerEmail: "Seller@Example.com"}
	require.True(t, p.OwnedBy("seller@example.com "))
	require.False(t, p.OwnedBy("other@example.com"))
	require.False(t, p.OwnedBy(""))
}

func TestParsePrice(t *testing.T) {
	price, err := ParsePrice(" 19.99 ")
	require.NoError(t, err)
	require.Equal(t, "19.99", price.String())

	trailing, err := ParsePrice("10.500")
	require.NoError(t, err)
	require.Equal(t, "10.50", trailing.StringFixed(2))

	for _, raw := range []string{"abc", "10.005", "0.001", "0", "-1.00"} {
		_, err = ParsePrice(raw)
		require.ErrorIs(t, err, ErrInvalidPrice, raw)
	}
}
