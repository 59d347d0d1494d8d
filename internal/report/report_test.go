package report_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"backlinks/internal/report"
	"backlinks/pkg/domain"

	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		CompetitorCount: 3,
		ClientCount:     1,
		Opportunities: []domain.Opportunity{
			{
				URL:     "http://192.168.1.5/download/crack",
				Verdict: domain.NewVerdict([]string{"IP address used as domain", "Suspicious keyword in path or URL"}),
			},
			{URL: "http://good-example.com/page", Verdict: domain.NewVerdict(nil)},
		},
	}
}

func TestSummary(t *testing.T) {
	require.Equal(t, "Found 2 unique opportunities not yet used by client.", report.Summary(sampleReport()))
	require.Equal(t,
		"No unique opportunities found. The client already has all competitor links.",
		report.Summary(&domain.Report{}))
	require.Equal(t,
		"No unique opportunities found. The client already has all competitor links.",
		report.Summary(nil))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, sampleReport(), report.Options{}))
	require.Equal(t,
		"URL,Status\n"+
			"http://192.168.1.5/download/crack,Spammy\n"+
			"http://good-example.com/page,Likely Good\n",
		buf.String())

	buf.Reset()
	require.NoError(t, report.WriteCSV(&buf, sampleReport(), report.Options{Reason: true}))
	require.Equal(t,
		"URL,Status,Reason\n"+
			"http://192.168.1.5/download/crack,Spammy,IP address used as domain; Suspicious keyword in path or URL\n"+
			"http://good-example.com/page,Likely Good,\n",
		buf.String())
}

func TestWriteCSV_QuotesAndEnrichment(t *testing.T) {
	r := &domain.Report{Opportunities: []domain.Opportunity{
		{
			URL:        `http://a.com/?q="x",y`,
			Verdict:    domain.NewVerdict(nil),
			Enrichment: &domain.Enrichment{Mode: domain.EnrichmentModeAI, Relevance: 8, Quality: 5, Summary: "Relevant, decent"},
		},
		{URL: "http://b.com", Verdict: domain.NewVerdict(nil), Enrichment: domain.ManualEnrichment("quota")},
		{URL: "http://c.com", Verdict: domain.NewVerdict(nil)},
	}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, r, report.Options{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"URL", "Status", "Enrichment", "Relevance", "Quality", "Summary"},
		{`http://a.com/?q="x",y`, "Likely Good", "ai", "8", "5", "Relevant, decent"},
		{"http://b.com", "Likely Good", "manual", "", "", "quota"},
		{"http://c.com", "Likely Good", "", "", "", ""},
	}, records)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, &domain.Report{}, report.Options{Reason: true}))
	require.Equal(t, "URL,Status,Reason\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf, sampleReport(), 80))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	require.True(t, strings.HasPrefix(lines[0], "URL"))
	require.Contains(t, lines[0], "STATUS")
	require.Contains(t, lines[1], "http://192.168.1.5/download/crack")
	require.Contains(t, lines[1], "Spammy")
	require.Contains(t, lines[1], "...", "the reason is shortened to fit")
	require.Contains(t, lines[2], "Likely Good")
	require.Equal(t, "", lines[3])
	require.Equal(t, "Found 2 unique opportunities not yet used by client.", lines[4])

	// columns are aligned
	require.Equal(t, strings.Index(lines[0], "STATUS"), strings.Index(lines[1], "Spammy"))
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteTable(&buf, &domain.Report{}, 0))
	require.Equal(t, "No unique opportunities found. The client already has all competitor links.\n", buf.String())
}
