package models

// Response is the uniform envelope for all API responses.
type Response struct {
	// Success indicates whether the request completed without errors.
	Success bool `json:"success"`

	// Data carries the route-specific payload when Success is true.
	Data any `json:"data,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// UpdateProductRequest is the payload for PUT /api/v1/products/:asin.
// Title and Description are required; Bullets fully replace the stored set.
type UpdateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
