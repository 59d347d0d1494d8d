// Package v1handler implements the v1 HTTP endpoints of the backlink checker.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"backlinks/internal/analyzer"
	"backlinks/internal/config"
	"backlinks/pkg/logger"
	"backlinks/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	Analyzer analyzer.Analyzer
}

// Options configures the handlers.
type Options struct {
	// MaxUploadBytes limits the request body of uploads and classify batches.
	MaxUploadBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxUploadBytes: cfg.HTTP.MaxUploadBytes}
}

type Handler struct {
	deps Deps
	opts Options
}

func New(deps Deps, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	return &Handler{deps: deps, opts: opts}
}

// Routes returns the v1 router, to be mounted under /v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/classify", h.Classify)
	r.Post("/opportunities", h.Opportunities)
	r.Get("/rules", h.Rules)

	return r
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// Encode writes the response body as {"code": ..., "message": ...}.
func (r *ErrorResponse) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(r.Code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(r.Message) })
	})
}

// NewError maps err to a response. Semantic kinds keep their own message;
// anything else is logged and reported as an internal error.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	var (
		status int
		kind   serrors.Kind
	)
	switch {
	case errors.Is(err, serrors.ErrSchema):
		status, kind = http.StatusUnprocessableEntity, serrors.ErrSchema
	case errors.Is(err, serrors.ErrBadRequest):
		status, kind = http.StatusBadRequest, serrors.ErrBadRequest
	default:
		logger.Error(ctx, "request failed", zap.Error(err))

		return &ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       serrors.ErrInternal.Error(),
			Message:    "internal error",
		}
	}

	msg := err.Error()
	var se *serrors.Error
	if errors.As(err, &se) && se.Message() != "" {
		msg = se.Message()
	}

	return &ErrorResponse{StatusCode: status, Code: kind.Error(), Message: msg}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)

	var e jx.Encoder
	res.Encode(&e)
	writeJSON(w, res.StatusCode, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
