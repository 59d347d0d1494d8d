package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"backlinks/pkg/controller"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestPprof(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/debug/pprof", controller.Pprof())

	for _, p := range []string{"/debug/pprof/", "/debug/pprof/cmdline", "/debug/pprof/goroutine?debug=1"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))

		res := rec.Result()
		require.Equal(t, http.StatusOK, res.StatusCode, "path %s", p)
		require.NotEmpty(t, res.Header.Get("Content-Type"), "path %s", p)
	}
}
