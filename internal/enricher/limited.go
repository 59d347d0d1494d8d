// Package enricher makes an enrichment.Enricher safe to call from a batch:
// it shares the provider's request budget between concurrent callers, retries
// transient failures and degrades to manual review once the quota is gone.
package enricher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"backlinks/internal/config"
	"backlinks/pkg/domain"
	"backlinks/pkg/enrichment"
	"backlinks/pkg/logger"
	"backlinks/pkg/serrors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// QuotaNote is the summary of manual results produced after the provider
	// quota ran out.
	QuotaNote = "Enrichment quota exhausted; review manually"
	// FailureNote is the summary of a manual result produced after a failed call.
	FailureNote = "Enrichment failed; review manually"

	// unboundedBudget stands in for the budget of providers that report no
	// rate-limit headers.
	unboundedBudget = 1 << 20
)

// Options configures Limited.
type Options struct {
	// Timeout bounds a single provider call. Zero disables it.
	Timeout time.Duration
	// MaxRetries is the number of retries after a retryable failure.
	MaxRetries int
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
	// MaxBackoff caps the retry delay.
	MaxBackoff time.Duration
}

// NewOptions builds Options from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Timeout:        cfg.Enrichment.Timeout,
		MaxRetries:     cfg.Enrichment.MaxRetries,
		InitialBackoff: cfg.Enrichment.InitialBackoff,
		MaxBackoff:     cfg.Enrichment.MaxBackoff,
	}
}

// Limited wraps an enrichment.Enricher with cooperative rate limiting, a
// per-call timeout, retries with exponential backoff and a quota fallback.
//
// # Rate limiting
//
// Limited tracks the last known provider budget (lastRLStatus) and the number
// of calls in flight. A call may start when
//
//	remaining - inFlight > 0
//
// where remaining is lastRLStatus.Remaining, or lastRLStatus.Limit once
// ResetAt has passed. Otherwise the caller waits for ResetAt or for any
// in-flight call to finish, whichever comes first.
//
// Until the first response arrives only one probe call is allowed. A response
// with a newer ResetAt always replaces the stored status; within the same
// window only a lower Remaining does, so concurrent responses never make the
// budget look larger than it is. A provider that returns no rate-limit
// information is treated as unbounded.
//
// # Failures
//
// Rate-limited, unavailable and timed-out calls are retried. Once the
// provider reports an exhausted quota every call, including those already
// waiting, returns a manual result without reaching the provider.
type Limited struct {
	next enrichment.Enricher
	opts Options

	// exhausted is set once the provider reports an exhausted quota.
	exhausted atomic.Bool

	// mu protects inFlightRequests and lastRLStatus.
	mu               sync.Mutex
	inFlightRequests int
	lastRLStatus     *enrichment.RateLimitStatus
	// probing is true while lastRLStatus is the synthetic bootstrap status.
	probing bool
	// requestFinishedChan wakes one goroutine waiting in reserveRL.
	requestFinishedChan chan struct{}
}

// NewLimited wraps next.
func NewLimited(next enrichment.Enricher, opts Options) *Limited {
	return &Limited{
		next:                next,
		opts:                opts,
		requestFinishedChan: make(chan struct{}),
	}
}

// Exhausted reports whether the provider quota ran out.
func (l *Limited) Exhausted() bool {
	return l.exhausted.Load()
}

// Enrich assesses url. The returned enrichment is never nil: when the
// provider cannot produce an assessment a manual result is returned, together
// with the cause unless the cause is an exhausted quota.
func (l *Limited) Enrich(ctx context.Context, url string, clientContext string) (*domain.Enrichment, error) {
	ctx = logger.WithFields(ctx, zap.String("URL", url))

	if l.exhausted.Load() {
		return domain.ManualEnrichment(QuotaNote), nil
	}

	res, err := backoff.RetryWithData(func() (enrichment.Result, error) {
		return l.attempt(ctx, url, clientContext)
	}, l.backoff(ctx))
	if err != nil {
		if errors.Is(err, serrors.ErrQuotaExhausted) {
			return domain.ManualEnrichment(QuotaNote), nil
		}
		logger.Warn(ctx, "enrichment failed", zap.Error(err))

		return domain.ManualEnrichment(FailureNote), fmt.Errorf("could not enrich URL: %w", err)
	}

	return &domain.Enrichment{
		Mode:      domain.EnrichmentModeAI,
		Relevance: res.Relevance,
		Quality:   res.Quality,
		Summary:   res.Summary,
	}, nil
}

func (l *Limited) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if l.opts.InitialBackoff > 0 {
		exp.InitialInterval = l.opts.InitialBackoff
	}
	if l.opts.MaxBackoff > 0 {
		exp.MaxInterval = l.opts.MaxBackoff
	}
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(l.opts.MaxRetries, 0))), ctx)
}

// attempt performs one rate-limited provider call. Errors that are not worth
// retrying are returned as permanent.
func (l *Limited) attempt(ctx context.Context, url, clientContext string) (enrichment.Result, error) {
	if l.exhausted.Load() {
		return enrichment.Result{}, backoff.Permanent(serrors.With(serrors.ErrQuotaExhausted, "quota exhausted"))
	}

	if err := l.reserveRL(ctx); err != nil {
		return enrichment.Result{}, backoff.Permanent(err)
	}

	callCtx := ctx
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	res, rl, err := l.next.Enrich(callCtx, url, clientContext)
	quota := errors.Is(err, serrors.ErrQuotaExhausted)
	if quota && !l.exhausted.Swap(true) {
		logger.Warn(ctx, "enrichment quota exhausted, switching to manual review", zap.Error(err))
	}
	l.requestFinished(ctx, rl, err == nil)
	if err == nil {
		return res, nil
	}

	switch {
	case quota, ctx.Err() != nil:
		return enrichment.Result{}, backoff.Permanent(err)
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && serrors.KindOf(err) == nil:
		err = serrors.Wrap(serrors.ErrTimeout, err, "enrichment timed out after %s", l.opts.Timeout)
	}

	if !serrors.Retryable(err) {
		return enrichment.Result{}, backoff.Permanent(err)
	}
	logger.Debug(ctx, "retryable enrichment failure", zap.Error(err))

	return enrichment.Result{}, err
}

// requestFinished is called after every provider call. It releases the
// in-flight slot, wakes one waiter and merges newRLStatus into the stored
// budget. succeeded tells whether the provider answered the call.
func (l *Limited) requestFinished(ctx context.Context, newRLStatus enrichment.RateLimitStatus, succeeded bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inFlightRequests = max(l.inFlightRequests-1, 0)

	select {
	case l.requestFinishedChan <- struct{}{}:
	default:
	}

	if newRLStatus.ResetAt.IsZero() {
		if l.probing && succeeded {
			// the provider does not report a budget
			l.probing = false
			l.lastRLStatus = &enrichment.RateLimitStatus{
				Limit:     unboundedBudget,
				Remaining: unboundedBudget,
				ResetAt:   time.Now().Add(365 * 24 * time.Hour),
			}
		}

		return
	}

	log := func() {
		logger.Debug(ctx, "received rate limit status",
			zap.Int("limit", newRLStatus.Limit),
			zap.Int("remaining", newRLStatus.Remaining),
			zap.Time("resetAt", newRLStatus.ResetAt),
			zap.Int("inFlight", l.inFlightRequests))
	}

	if l.lastRLStatus == nil || l.probing || !l.lastRLStatus.ResetAt.Equal(newRLStatus.ResetAt) {
		l.probing = false
		l.lastRLStatus = &newRLStatus
		log()

		return
	}

	if newRLStatus.Remaining < l.lastRLStatus.Remaining {
		l.lastRLStatus = &newRLStatus
		log()
	}
}

// reserveRL takes one unit of the budget, blocking until one is available or
// ctx is done.
func (l *Limited) reserveRL(ctx context.Context) error {
	for {
		l.mu.Lock()

		if l.lastRLStatus == nil {
			l.probing = true
			l.lastRLStatus = &enrichment.RateLimitStatus{
				Limit:     1,
				Remaining: 1,
				ResetAt:   time.Now().Add(365 * 24 * time.Hour),
			}
		}

		remaining := l.lastRLStatus.Remaining
		if time.Now().After(l.lastRLStatus.ResetAt) {
			remaining = l.lastRLStatus.Limit
		}

		if remaining-l.inFlightRequests > 0 {
			l.inFlightRequests++
			l.mu.Unlock()

			return nil
		}

		resetAt := l.lastRLStatus.ResetAt
		inFlight := l.inFlightRequests
		l.mu.Unlock()

		logger.Debug(ctx, "waiting for rate limit slot",
			zap.Int("remaining", remaining),
			zap.Time("resetAt", resetAt),
			zap.Int("inFlight", inFlight))

		timer := time.NewTimer(time.Until(resetAt))
		select {
		case <-ctx.Done():
			timer.Stop()

			return fmt.Errorf("timeout waiting for rate limit: %w", ctx.Err())
		case <-l.requestFinishedChan:
		case <-timer.C:
		}
		timer.Stop()

		if l.exhausted.Load() {
			// pass the wake-up on to the next waiter
			select {
			case l.requestFinishedChan <- struct{}{}:
			default:
			}

			return serrors.With(serrors.ErrQuotaExhausted, "quota exhausted")
		}
	}
}
