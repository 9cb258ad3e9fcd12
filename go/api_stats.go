package marketplaceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	statshttpmapper "github.com/Apurer/go-gin-marketplace/internal/domains/stats/adapters/http/mapper"
	statsports "github.com/Apurer/go-gin-marketplace/internal/domains/stats/ports"
)

// StatsAPI serves the seller dashboard figures.
type StatsAPI struct {
	service statsports.Service
}

func NewStatsAPI(service statsports.Service) StatsAPI {
	return StatsAPI{service: service}
}

// Get /v1/seller/stats
// Product and order figures for the caller
func (api *StatsAPI) SellerStats(c *gin.Context) {
	stats, err := api.service.SellerStats(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statshttpmapper.FromDomain(stats))
}
