package v1handler

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"backlinks/internal/ingest"
	"backlinks/internal/report"
	"backlinks/pkg/domain"
	"backlinks/pkg/serrors"

	"github.com/go-faster/jx"
)

const (
	competitorField = "competitor"
	clientField     = "client"
	csvContentType  = "text/csv"
)

// Opportunities handles POST /opportunities. It expects a multipart form with
// the competitor and client exports and answers with the report as JSON, or
// as CSV when asked for with ?format=csv or an Accept header.
func (h *Handler) Opportunities(w http.ResponseWriter, r *http.Request) {
	asCSV, err := wantsCSV(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		h.writeError(w, r, bodyError(err))

		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	competitor, err := readFormTable(r, competitorField)
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	client, err := readFormTable(r, clientField)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	rep, err := h.deps.Analyzer.Analyze(r.Context(), competitor, client)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if asCSV {
		h.writeCSV(w, r, rep)

		return
	}

	var e jx.Encoder
	encodeReport(&e, rep)
	writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, rep *domain.Report) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep, report.Options{Reason: true}); err != nil {
		h.writeError(w, r, fmt.Errorf("could not render report: %w", err))

		return
	}

	w.Header().Set("Content-Type", csvContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.Filename,
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func readFormTable(r *http.Request, field string) ([]string, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "missing %s file", field)
	}
	defer func() { _ = f.Close() }()

	urls, err := ingest.ReadURLs(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %s file: %w", field, err)
	}

	return urls, nil
}

func wantsCSV(r *http.Request) (bool, error) {
	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		return true, nil
	case "json":
		return false, nil
	case "":
	default:
		return false, serrors.With(serrors.ErrBadRequest, "unsupported format %q", format)
	}

	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == csvContentType {
			return true, nil
		}
	}

	return false, nil
}
