package domain_test

import (
	"testing"

	"backlinks/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestNewVerdict(t *testing.T) {
	v := domain.NewVerdict(nil)
	require.False(t, v.Flagged)
	require.Empty(t, v.Reasons)
	require.Equal(t, "", v.Reason())
	require.Equal(t, domain.StatusLikelyGood, v.Status())

	v = domain.NewVerdict([]string{"IP address used as domain", "Suspicious keyword in path or URL"})
	require.True(t, v.Flagged)
	require.Equal(t, "IP address used as domain; Suspicious keyword in path or URL", v.Reason())
	require.Equal(t, domain.StatusSpammy, v.Status())
}

func TestReportCounters(t *testing.T) {
	var nilReport *domain.Report
	require.True(t, nilReport.Empty())
	require.Zero(t, nilReport.Flagged())

	r := &domain.Report{Opportunities: []domain.Opportunity{
		{URL: "http://a.com", Verdict: domain.NewVerdict(nil)},
		{URL: "http://b.xyz", Verdict: domain.NewVerdict([]string{"x"})},
	}}
	require.False(t, r.Empty())
	require.Equal(t, 1, r.Flagged())
	require.False(t, r.Enriched())

	r.Opportunities[0].Enrichment = domain.ManualEnrichment("quota exhausted")
	require.True(t, r.Enriched())
	require.Equal(t, domain.EnrichmentModeManual, r.Opportunities[0].Enrichment.Mode)
}
