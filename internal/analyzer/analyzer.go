// Package analyzer runs the differencer, the rule classifier and the optional
// enrichment step over a pair of backlink lists and collects a report.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"backlinks/internal/config"
	"backlinks/internal/opportunity"
	"backlinks/internal/rules"
	"backlinks/pkg/domain"
	"backlinks/pkg/logger"
	"backlinks/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "backlinks/internal/analyzer"

// Options configure batch classification.
type Options struct {
	// Workers bounds how many URLs are processed concurrently.
	Workers int
	// Enrich turns on enrichment of every opportunity when an Enricher is set.
	Enrich bool
	// ClientContext describes the client's site to the enrichment provider.
	ClientContext string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Workers:       cfg.Analyzer.Workers,
		Enrich:        cfg.Enrichment.Enabled,
		ClientContext: cfg.Enrichment.ClientContext,
	}
}

// analyzer is the concrete implementation of the Analyzer interface.
type analyzer struct {
	options    Options
	classifier *rules.Classifier
	// enricher is nil when enrichment is not configured.
	enricher Enricher
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Analyze computes the opportunities of competitor over client, classifies
// them and, when enabled, enriches them. Enrichment failures are logged and
// leave a manual-review enrichment on the opportunity.
func (a *analyzer) Analyze(ctx context.Context, competitor, client []string) (*domain.Report, error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "Analyze")
	defer span.End()

	report := &domain.Report{
		CompetitorCount: len(opportunity.Set(competitor)),
		ClientCount:     len(opportunity.Set(client)),
	}
	urls := opportunity.Diff(competitor, client)
	span.SetAttributes(
		attribute.Int("competitor.count", report.CompetitorCount),
		attribute.Int("client.count", report.ClientCount),
		attribute.Int("opportunities.count", len(urls)),
	)

	enrich := a.options.Enrich && a.enricher != nil
	opps, err := a.process(ctx, urls, enrich)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis canceled")

		return nil, fmt.Errorf("could not analyze backlinks: %w", err)
	}
	report.Opportunities = opps

	a.metrics.ObserveAnalysis(time.Since(start), len(opps))
	logger.Info(ctx, "analysis finished",
		zap.Int("competitor", report.CompetitorCount),
		zap.Int("client", report.ClientCount),
		zap.Int("opportunities", len(opps)),
		zap.Int("flagged", report.Flagged()),
		zap.Bool("enriched", enrich),
		zap.Duration("took", time.Since(start)))

	return report, nil
}

// Classify classifies urls in the given order. Blank entries are kept and
// classified like any other input.
func (a *analyzer) Classify(ctx context.Context, urls ...string) []domain.Opportunity {
	ctx, span := a.tracer.Start(ctx, "Classify", trace.WithAttributes(attribute.Int("urls.count", len(urls))))
	defer span.End()

	// classification cannot block, so the batch always completes
	opps, _ := a.process(context.WithoutCancel(ctx), urls, false)

	return opps
}

// Rules lists the active rule names in evaluation order.
func (a *analyzer) Rules() []string {
	return a.classifier.Rules()
}

// process classifies, and optionally enriches, every URL on a bounded pool.
// The output has the order of urls.
func (a *analyzer) process(ctx context.Context, urls []string, enrich bool) ([]domain.Opportunity, error) {
	out := make([]domain.Opportunity, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.options.Workers, 1))

	for i, u := range urls {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			out[i] = a.classify(u)
			if !enrich {
				return nil
			}

			e, err := a.enricher.Enrich(gctx, u, a.options.ClientContext)
			out[i].Enrichment = e
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				a.metrics.IncrementEnrichment("error")
				logger.Warn(gctx, "could not enrich opportunity", zap.String("URL", u), zap.Error(err))
			case e != nil:
				a.metrics.IncrementEnrichment(string(e.Mode))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err //nolint: wrapcheck
	}
	if err := ctx.Err(); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return out, nil
}

func (a *analyzer) classify(u string) domain.Opportunity {
	ev := a.classifier.Evaluate(u)
	a.metrics.ObserveClassification(string(ev.Verdict.Status()), ev.Rules)

	return domain.Opportunity{URL: u, Verdict: ev.Verdict}
}

// New creates an Analyzer. enricher and m may be nil.
func New(classifier *rules.Classifier, enricher Enricher, m *metrics.Metrics, options Options) Analyzer {
	return &analyzer{
		options:    options,
		classifier: classifier,
		enricher:   enricher,
		metrics:    m,
		tracer:     otel.Tracer(tracerName),
	}
}
