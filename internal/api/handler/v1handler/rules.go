package v1handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// Rules handles GET /rules and lists the active rules in evaluation order.
func (h *Handler) Rules(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("rules", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, name := range h.deps.Analyzer.Rules() {
					e.Str(name)
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}
