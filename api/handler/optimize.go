package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/models"
	"github.com/use-agent/listify/store"
)

// Optimizer produces an improved listing. Implementations must always
// return a result; degraded inputs fall back to deterministic synthesis.
type Optimizer interface {
	Optimize(ctx context.Context, listing *models.Listing) *models.Optimized
}

// OptimizeResult pairs the stored listing with its optimized variant.
type OptimizeResult struct {
	Original  *store.Product      `json:"original"`
	Optimized *store.Optimization `json:"optimized"`
}

// Optimize handles POST /api/v1/optimize/:asin. The product must already
// be stored; the optimization run is persisted as a history entry.
func Optimize(st store.Store, opt Optimizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		asin := strings.ToUpper(strings.TrimSpace(c.Param("asin")))
		if !models.ValidASINLength(asin) {
			respondErrorDetail(c, http.StatusBadRequest, models.ErrCodeInvalidASIN, "ASIN must be 10 characters")
			return
		}

		product, err := st.GetProductByASIN(c.Request.Context(), asin)
		if err != nil {
			respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to load product", err))
			return
		}
		if product == nil {
			respondErrorDetail(c, http.StatusNotFound, models.ErrCodeNotFound, "product not found, fetch it first")
			return
		}

		listing := &models.Listing{
			ASIN:        product.ASIN,
			Title:       product.Title,
			Bullets:     product.Bullets,
			Description: product.Description,
		}
		optimized := opt.Optimize(c.Request.Context(), listing)

		record := &store.Optimization{
			Title:       optimized.Title,
			Description: optimized.Description,
			Bullets:     optimized.Bullets,
			Keywords:    optimized.Keywords,
		}
		if err := st.CreateOptimization(c.Request.Context(), product.ID, record); err != nil {
			respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to save optimization", err))
			return
		}

		respondOK(c, OptimizeResult{Original: product, Optimized: record})
	}
}
