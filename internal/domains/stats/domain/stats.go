package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductFact is the slice of a product the dashboard counts.
type ProductFact struct {
	SellerEmail string
	Status      int
}

// OrderFact is the slice of an order the dashboard sums. Total and Status
// are kept raw so a malformed row still counts instead of failing the read.
type OrderFact struct {
	SellerEmail string
	Total       string
	Status      string
}

// SellerStats are the dashboard figures for one seller.
type SellerStats struct {
	TotalProducts  int
	ActiveProducts int
	TotalOrders    int
	TotalRevenue   decimal.Decimal
	PendingOrders  int
}

const activeStatus = 1

// Compute folds the seller's products and orders into dashboard figures.
// Rows owned by other sellers are ignored. An unparsable total adds nothing.
func Compute(seller string, products []ProductFact, orders []OrderFact) SellerStats {
	stats := SellerStats{TotalRevenue: decimal.Zero}
	for _, p := range products {
		if !sameSeller(p.SellerEmail, seller) {
			continue
		}
		stats.TotalProducts++
		if p.Status == activeStatus {
			stats.ActiveProducts++
		}
	}
	for _, o := range orders {
		if !sameSeller(o.SellerEmail, seller) {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(parseTotal(o.Total))
		if strings.EqualFold(strings.TrimSpace(o.Status), "pending") {
			stats.PendingOrders++
		}
	}
	return stats
}

func sameSeller(owner, seller string) bool {
	return strings.EqualFold(strings.TrimSpace(owner), strings.TrimSpace(seller))
}

func parseTotal(raw string) decimal.Decimal {
	total, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return total
}
