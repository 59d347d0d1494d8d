package domain

// Opportunity is one candidate backlink together with its verdict and, when
// enrichment ran, the provider's assessment.
type Opportunity struct {
	URL        string      `json:"url"`
	Verdict    Verdict     `json:"verdict"`
	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// Report is the result of comparing a competitor's backlinks with a client's.
// Opportunities are sorted by normalized URL.
type Report struct {
	// CompetitorCount is the number of distinct normalized competitor URLs.
	CompetitorCount int `json:"competitorCount"`
	// ClientCount is the number of distinct normalized client URLs.
	ClientCount int `json:"clientCount"`

	Opportunities []Opportunity `json:"opportunities"`
}

// Empty reports whether the client already has every competitor link.
func (r *Report) Empty() bool {
	return r == nil || len(r.Opportunities) == 0
}

// Flagged returns the number of opportunities classified as spammy.
func (r *Report) Flagged() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, o := range r.Opportunities {
		if o.Verdict.Flagged {
			n++
		}
	}

	return n
}

// Enriched reports whether any opportunity carries an enrichment.
func (r *Report) Enriched() bool {
	if r == nil {
		return false
	}
	for _, o := range r.Opportunities {
		if o.Enrichment != nil {
			return true
		}
	}

	return false
}
