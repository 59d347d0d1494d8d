// Package enrichment defines the optional, non-deterministic assessment of a
// backlink by an external text-generation provider. The deterministic
// classifier never depends on it.
package enrichment

import (
	"context"
	"time"
)

// RateLimitStatus describes the provider's request budget as reported with
// the last response.
type RateLimitStatus struct {
	Limit     int       // Limit is the total number of allowed requests in the current window.
	Remaining int       // Remaining indicates how many requests are left in the current window.
	ResetAt   time.Time // ResetAt is when the window resets. Zero when unknown.
}

// Result is a provider's assessment of one URL. Scores range from 0 to 10.
type Result struct {
	Relevance int    // Relevance of the linking page to the client's niche.
	Quality   int    // Quality is the estimated authority/trust of the linking page.
	Summary   string // Summary is a one-sentence justification.
}

// Enricher scores a backlink URL against a description of the client's site.
//
//go:generate mockgen -package mockenrichment -source=interface.go -destination=mock/mockenrichment.go *
type Enricher interface {
	// Enrich assesses url for a client described by clientContext. The
	// returned RateLimitStatus is meaningful even when err is not nil.
	Enrich(ctx context.Context, url string, clientContext string) (Result, RateLimitStatus, error)
}
