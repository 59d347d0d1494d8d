package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WithMetrics returns a middleware that counts requests and records their
// latency on meter, labelled by method, chi route pattern and status code. It
// must run inside a chi router for the route pattern to be known.
func WithMetrics(meter metric.Meter) (func(http.Handler) http.Handler, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests handled"))
	if err != nil {
		return nil, fmt.Errorf("could not create request counter: %w", err)
	}
	latency, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create latency histogram: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			attrs := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("route", route),
				attribute.String("status", strconv.Itoa(rec.status)),
			)
			requests.Add(r.Context(), 1, attrs)
			latency.Record(r.Context(), time.Since(start).Seconds(), attrs)
		})
	}, nil
}
