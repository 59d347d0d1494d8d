package v1handler

import (
	"backlinks/internal/report"
	"backlinks/pkg/domain"

	"github.com/go-faster/jx"
)

func encodeOpportunity(e *jx.Encoder, o domain.Opportunity) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("url", func(e *jx.Encoder) { e.Str(o.URL) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Verdict.Status())) })
		e.Field("flagged", func(e *jx.Encoder) { e.Bool(o.Verdict.Flagged) })
		e.Field("reasons", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, r := range o.Verdict.Reasons {
					e.Str(r)
				}
			})
		})
		e.Field("reason", func(e *jx.Encoder) { e.Str(o.Verdict.Reason()) })
		if o.Enrichment != nil {
			e.Field("enrichment", func(e *jx.Encoder) { encodeEnrichment(e, o.Enrichment) })
		}
	})
}

func encodeEnrichment(e *jx.Encoder, en *domain.Enrichment) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("mode", func(e *jx.Encoder) { e.Str(string(en.Mode)) })
		if en.Mode == domain.EnrichmentModeAI {
			e.Field("relevance", func(e *jx.Encoder) { e.Int(en.Relevance) })
			e.Field("quality", func(e *jx.Encoder) { e.Int(en.Quality) })
		}
		if en.Summary != "" {
			e.Field("summary", func(e *jx.Encoder) { e.Str(en.Summary) })
		}
	})
}

func encodeOpportunities(e *jx.Encoder, opps []domain.Opportunity) {
	e.Arr(func(e *jx.Encoder) {
		for _, o := range opps {
			encodeOpportunity(e, o)
		}
	})
}

func encodeReport(e *jx.Encoder, r *domain.Report) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("competitorCount", func(e *jx.Encoder) { e.Int(r.CompetitorCount) })
		e.Field("clientCount", func(e *jx.Encoder) { e.Int(r.ClientCount) })
		e.Field("flaggedCount", func(e *jx.Encoder) { e.Int(r.Flagged()) })
		e.Field("summary", func(e *jx.Encoder) { e.Str(report.Summary(r)) })
		e.Field("opportunities", func(e *jx.Encoder) { encodeOpportunities(e, r.Opportunities) })
	})
}
