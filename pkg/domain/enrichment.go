package domain

// EnrichmentMode tells how an Enrichment was produced.
type EnrichmentMode string

const (
	// EnrichmentModeAI means the provider scored the URL.
	EnrichmentModeAI EnrichmentMode = "ai"
	// EnrichmentModeManual means the provider was unavailable (quota exhausted,
	// repeated failures) and the URL needs a manual review.
	EnrichmentModeManual EnrichmentMode = "manual"
)

// Enrichment is the optional, non-deterministic assessment attached to an
// opportunity by an external provider. Scores are on a 0-10 scale.
type Enrichment struct {
	Mode      EnrichmentMode `json:"mode"`
	Relevance int            `json:"relevance,omitempty"`
	Quality   int            `json:"quality,omitempty"`
	Summary   string         `json:"summary,omitempty"`
}

// ManualEnrichment returns the degraded result used when the provider cannot
// be reached. note explains why.
func ManualEnrichment(note string) *Enrichment {
	return &Enrichment{Mode: EnrichmentModeManual, Summary: note}
}
