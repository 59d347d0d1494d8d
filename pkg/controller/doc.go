// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the allowed origins and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithMetrics: Records request counts and latencies on an OpenTelemetry meter.
//
// Provided helpers:
//   - Pprof: Returns a router exposing net/http/pprof handlers.
package controller
