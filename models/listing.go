package models

import "strings"

// ASINLength is the fixed length of an Amazon Standard Identification Number.
const ASINLength = 10

// Listing is a product listing as extracted from Amazon.
// A Listing is built fresh on every successful extraction and never mutated
// afterwards. An empty Title marks a failed extraction, not a real product
// with no title.
type Listing struct {
	ASIN        string   `json:"asin"`
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	Description string   `json:"description"`
}

// Optimized is a rewritten listing plus suggested search keywords. It is
// produced either by the LLM orchestrator or by the deterministic fallback
// engine; callers cannot tell the two apart from the shape.
type Optimized struct {
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// ValidASINLength reports whether the trimmed input has the exact ASIN
// length. This is the lenient display-layer check used by the API handlers;
// the scraper applies a stricter alphanumeric check before any I/O. The two
// checks are intentionally distinct — do not unify them.
func ValidASINLength(asin string) bool {
	return len(strings.TrimSpace(asin)) == ASINLength
}

// ParseRefresh interprets the ?refresh= query value. Accepted truthy
// spellings mirror common client habits.
func ParseRefresh(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
