package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/models"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// StatsProvider reports browser pool utilization.
type StatsProvider interface {
	Stats() models.PoolStats
}

// Health handles GET /api/v1/health.
func Health(stats StatsProvider, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps := stats.Stats()
		status := "healthy"
		if ps.ActivePages >= ps.MaxPages {
			status = "degraded"
		}
		respondOK(c, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: ps,
			Version:   Version,
		})
	}
}
