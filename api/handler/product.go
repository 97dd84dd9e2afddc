package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/listify/models"
	"github.com/use-agent/listify/store"
)

// Fetcher retrieves a live listing from the retail page.
type Fetcher interface {
	Product(ctx context.Context, asin string) (*models.Listing, error)
}

// GetProduct handles GET /api/v1/products/:asin.
//
// The stored record is served when present. A scrape happens when the
// record is absent or refresh is requested; an existing record is only
// overwritten when the fresh listing carries a non-empty description,
// otherwise the fresh listing is returned without persisting it.
func GetProduct(st store.Store, fetcher Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		asin := strings.ToUpper(strings.TrimSpace(c.Param("asin")))
		// Length-only check here; the fetcher re-validates the character set.
		if !models.ValidASINLength(asin) {
			respondErrorDetail(c, http.StatusBadRequest, models.ErrCodeInvalidASIN, "ASIN must be 10 characters")
			return
		}
		refresh := models.ParseRefresh(c.Query("refresh"))

		stored, err := st.GetProductByASIN(c.Request.Context(), asin)
		if err != nil {
			respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to load product", err))
			return
		}
		if stored != nil && !refresh {
			respondOK(c, stored)
			return
		}

		listing, err := fetcher.Product(c.Request.Context(), asin)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.ErrCodeInvalidASIN {
				respondError(c, err)
				return
			}
			slog.Warn("product fetch failed", "asin", asin, "error", err)
			respondErrorDetail(c, http.StatusNotFound, models.ErrCodeNotFound, "failed to fetch product from Amazon")
			return
		}

		switch {
		case stored == nil:
			product := &store.Product{
				ASIN:        asin,
				Title:       listing.Title,
				Description: listing.Description,
				Bullets:     listing.Bullets,
			}
			if err := st.CreateProduct(c.Request.Context(), product); err != nil {
				respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to save product", err))
				return
			}
			respondOK(c, product)

		case listing.Description != "":
			product := &store.Product{
				ASIN:        asin,
				Title:       listing.Title,
				Description: listing.Description,
				Bullets:     listing.Bullets,
			}
			if err := st.UpdateProduct(c.Request.Context(), asin, product); err != nil {
				respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to update product", err))
				return
			}
			respondOK(c, product)

		default:
			// Fresh extraction came back without a description; serve it
			// but keep the stored record intact.
			respondOK(c, &store.Product{
				ID:          stored.ID,
				ASIN:        asin,
				Title:       listing.Title,
				Description: listing.Description,
				Bullets:     listing.Bullets,
				CreatedAt:   stored.CreatedAt,
				UpdatedAt:   stored.UpdatedAt,
			})
		}
	}
}

// UpdateProduct handles PUT /api/v1/products/:asin with a manual edit.
func UpdateProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		asin := strings.ToUpper(strings.TrimSpace(c.Param("asin")))
		if !models.ValidASINLength(asin) {
			respondErrorDetail(c, http.StatusBadRequest, models.ErrCodeInvalidASIN, "ASIN must be 10 characters")
			return
		}

		var req models.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErrorDetail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
			respondErrorDetail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "title and description are required")
			return
		}

		product := &store.Product{
			ASIN:        asin,
			Title:       req.Title,
			Description: req.Description,
			Bullets:     req.Bullets,
		}
		if err := st.UpdateProduct(c.Request.Context(), asin, product); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondErrorDetail(c, http.StatusNotFound, models.ErrCodeNotFound, "product not found")
				return
			}
			respondError(c, models.NewAppError(models.ErrCodeStorage, "failed to update product", err))
			return
		}
		respondOK(c, product)
	}
}
