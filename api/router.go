package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/api/handler"
	"github.com/use-agent/listify/api/middleware"
	"github.com/use-agent/listify/config"
	"github.com/use-agent/listify/optimizer"
	"github.com/use-agent/listify/scraper"
	"github.com/use-agent/listify/store"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(st store.Store, sc *scraper.Scraper, opt *optimizer.Optimizer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	// Products
	protected.GET("/products/:asin", handler.GetProduct(st, sc))
	protected.PUT("/products/:asin", handler.UpdateProduct(st))

	// Optimization
	protected.POST("/optimize/:asin", handler.Optimize(st, opt))
	protected.GET("/history/:asin", handler.History(st))

	return r
}
