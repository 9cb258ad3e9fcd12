package mapper

import "github.com/Apurer/go-gin-marketplace/internal/domains/stats/domain"

// SellerStats is the dashboard response. Revenue travels as a decimal string.
type SellerStats struct {
	TotalProducts  int    `json:"totalProducts"`
	ActiveProducts int    `json:"activeProducts"`
	TotalOrders    int    `json:"totalOrders"`
	TotalRevenue   string `json:"totalRevenue"`
	PendingOrders  int    `json:"pendingOrders"`
}

func FromDomain(stats *domain.SellerStats) SellerStats {
	if stats == nil {
		return SellerStats{TotalRevenue: "0.00"}
	}
	return SellerStats{
		TotalProducts:  stats.TotalProducts,
		ActiveProducts: stats.ActiveProducts,
		TotalOrders:    stats.TotalOrders,
		TotalRevenue:   stats.TotalRevenue.StringFixed(2),
		PendingOrders:  stats.PendingOrders,
	}
}
