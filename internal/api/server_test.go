package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backlinks/internal/analyzer"
	"backlinks/internal/api"
	"backlinks/internal/api/handler/v1handler"
	"backlinks/internal/rules"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv, err := api.NewServer(api.Deps{
		Deps: v1handler.Deps{
			Analyzer: analyzer.New(rules.Default(), nil, nil, analyzer.Options{Workers: 1}),
		},
		Registry: prometheus.NewRegistry(),
	}, api.Options{
		MetricsPath:    "/metrics",
		AllowedOrigins: []string{"*"},
		RequestTimeout: 0,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	res, err := http.Get(url) //nolint: noctx
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, string(b)
}

func TestServer_Routes(t *testing.T) {
	ts := newTestServer(t)

	res, body := get(t, ts.URL+"/v1/rules")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"ip_address"`)
	require.NotEmpty(t, res.Header.Get("X-Request-Id"))
	require.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	res, body = get(t, ts.URL+"/specs/v1.yaml")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/yaml", res.Header.Get("Content-Type"))
	require.Contains(t, body, "openapi: 3.0.3")

	res, _ = get(t, ts.URL+"/v1/docs/")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = get(t, ts.URL+"/debug/pprof/")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Post(ts.URL+"/v1/classify", "application/json", //nolint: noctx
		strings.NewReader(`{"urls":["http://cheap.xyz"]}`))
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "http_server_requests")
	require.Contains(t, body, `route="/v1/classify"`)
}
