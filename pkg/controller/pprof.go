package controller

import (
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// Pprof returns a router with the net/http/pprof handlers. It is meant to be
// mounted at /debug/pprof, where pprof.Index resolves named profiles.
func Pprof() http.Handler {
	r := chi.NewRouter()
	r.HandleFunc("/", pprof.Index)
	r.HandleFunc("/cmdline", pprof.Cmdline)
	r.HandleFunc("/profile", pprof.Profile)
	r.HandleFunc("/symbol", pprof.Symbol)
	r.HandleFunc("/trace", pprof.Trace)
	r.HandleFunc("/{profile}", pprof.Index)

	return r
}
