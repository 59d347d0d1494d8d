package analyzer

import (
	"context"

	"backlinks/pkg/domain"
)

// Analyzer turns backlink lists into classified opportunities.
//
//go:generate mockgen -package mockanalyzer -source=interface.go -destination=mock/mockanalyzer.go *
type Analyzer interface {
	// Analyze computes the opportunities of competitor over client and
	// classifies each of them. It only fails when ctx is done.
	Analyze(ctx context.Context, competitor, client []string) (*domain.Report, error)
	// Classify classifies urls as given, without differencing, keeping their order.
	Classify(ctx context.Context, urls ...string) []domain.Opportunity
	// Rules lists the active rule names in evaluation order.
	Rules() []string
}

// Enricher attaches an external assessment to an opportunity. The returned
// enrichment is never nil, even alongside an error.
type Enricher interface {
	Enrich(ctx context.Context, url string, clientContext string) (*domain.Enrichment, error)
}
