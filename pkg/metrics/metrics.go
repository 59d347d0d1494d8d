package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const namespace = "backlinks"

// Metrics records classification and enrichment activity. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// URLs classified by status ("Spammy", "Likely Good")
	Classified *prometheus.CounterVec

	// Rule hits by rule name
	RuleTriggered *prometheus.CounterVec

	// Enrichment calls by outcome ("ai", "manual", "error")
	Enrichments *prometheus.CounterVec

	// Full analysis latency
	AnalyzeLatency prometheus.Histogram

	// Opportunity count of the last analysis
	Opportunities prometheus.Gauge
}

// New registers the metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		Classified: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "urls_classified_total",
			Help:      "Total URLs classified by status",
		}, []string{"status"}),

		RuleTriggered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rules_triggered_total",
			Help:      "Total rule matches by rule name",
		}, []string{"rule"}),

		Enrichments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichments_total",
			Help:      "Total enrichment attempts by outcome",
		}, []string{"outcome"}),

		AnalyzeLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Duration of a full competitor/client analysis",
			Buckets:   DefaultBuckets,
		}),

		Opportunities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_opportunities",
			Help:      "Number of opportunities found by the last analysis",
		}),
	}
}

// ObserveClassification records one classified URL and the rules it triggered.
func (m *Metrics) ObserveClassification(status string, rules []string) {
	if m == nil {
		return
	}
	m.Classified.WithLabelValues(status).Inc()
	for _, r := range rules {
		m.RuleTriggered.WithLabelValues(r).Inc()
	}
}

// IncrementEnrichment records an enrichment outcome.
func (m *Metrics) IncrementEnrichment(outcome string) {
	if m != nil {
		m.Enrichments.WithLabelValues(outcome).Inc()
	}
}

// ObserveAnalysis records the duration and result size of an analysis.
func (m *Metrics) ObserveAnalysis(d time.Duration, opportunities int) {
	if m == nil {
		return
	}
	m.AnalyzeLatency.Observe(d.Seconds())
	m.Opportunities.Set(float64(opportunities))
}
