// Package store persists products and their optimization history in
// Postgres. Multi-row writes (a record plus its child bullet/keyword rows)
// are transactional: a partial write is never observable.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound marks operations against a product that is not stored.
var ErrNotFound = eris.New("store: product not found")

// Product is a stored listing with its ordered bullets.
type Product struct {
	ID          int64     `json:"id"`
	ASIN        string    `json:"asin"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Bullets     []string  `json:"bullets"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Optimization is one stored generation result with its child rows.
type Optimization struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Bullets     []string  `json:"bullets"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store defines persistence operations keyed by ASIN or product id.
type Store interface {
	// GetProductByASIN returns the stored product with bullets attached,
	// or (nil, nil) when no product exists for the ASIN.
	GetProductByASIN(ctx context.Context, asin string) (*Product, error)

	// CreateProduct inserts the product and its bullets atomically,
	// setting ID/CreatedAt/UpdatedAt on success.
	CreateProduct(ctx context.Context, p *Product) error

	// UpdateProduct replaces title/description and the full bullet set of
	// the product addressed by ASIN. Returns ErrNotFound when absent.
	UpdateProduct(ctx context.Context, asin string, p *Product) error

	// CreateOptimization stores a generation result and its bullet/keyword
	// child rows atomically, setting ID/CreatedAt on success.
	CreateOptimization(ctx context.Context, productID int64, o *Optimization) error

	// HistoryByProductID returns all optimizations for a product, newest
	// first, each with bullets and keywords attached.
	HistoryByProductID(ctx context.Context, productID int64) ([]Optimization, error)
}
