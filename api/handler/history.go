package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/models"
	"github.com/use-agent/listify/store"
)

// HistoryResult pairs the stored listing with its optimization runs,
// newest first.
type HistoryResult struct {
	Product *store.Product       `json:"product"`
	History []store.Optimization `json:"history"`
}

// History handles GET /api/v1/history/:asin.
func History(st store.Store) gin.HandlerFunc {
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
			respondErrorDetail(c, http.StatusNotFound, models.ErrCodeNotFound, "product not found")
			return
		}

		history, err := st.HistoryByProductID(c.Request.Context(), product.ID)
		if err != nil {
			respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to load history", err))
			return
		}

		respondOK(c, HistoryResult{Product: product, History: history})
	}
}
