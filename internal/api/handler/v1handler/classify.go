package v1handler

import (
	"errors"
	"io"
	"net/http"

	"backlinks/pkg/serrors"

	"github.com/go-faster/jx"
)

// Classify handles POST /classify. The body is {"urls": [...]}; null entries
// are classified as blank URLs. Items are returned in request order.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes))
	if err != nil {
		h.writeError(w, r, bodyError(err))

		return
	}

	urls, err := decodeClassifyRequest(jx.DecodeBytes(body))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	opps := h.deps.Analyzer.Classify(r.Context(), urls...)

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) { encodeOpportunities(e, opps) })
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

func decodeClassifyRequest(d *jx.Decoder) ([]string, error) {
	urls := []string{}
	found := false
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "urls" {
			return d.Skip()
		}
		found = true
		if d.Next() != jx.Array {
			return serrors.With(serrors.ErrBadRequest, "urls must be an array of strings")
		}

		return d.Arr(func(d *jx.Decoder) error {
			switch d.Next() {
			case jx.Null:
				urls = append(urls, "")

				return d.Null()
			case jx.String:
				s, err := d.Str()
				urls = append(urls, s)

				return err
			default:
				return serrors.With(serrors.ErrBadRequest, "urls must be an array of strings")
			}
		})
	})
	if err != nil {
		if serrors.KindOf(err) != nil {
			return nil, err
		}

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}
	if !found {
		return nil, serrors.With(serrors.ErrBadRequest, "urls is required")
	}

	return urls, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return serrors.Wrap(serrors.ErrBadRequest, err, "request body exceeds %d bytes", tooLarge.Limit)
	}

	return serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
}
