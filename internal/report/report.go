// Package report renders an analysis report as CSV for export and as an
// aligned table for terminals.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"backlinks/pkg/domain"

	"golang.org/x/term"
)

// Filename is the suggested name of an exported report.
const Filename = "backlink_opportunities.csv"

const (
	emptyMessage = "No unique opportunities found. The client already has all competitor links."

	// DefaultWidth is used when the output is not a terminal.
	DefaultWidth = 120
	minURLWidth  = 20
)

// Options control the CSV columns.
type Options struct {
	// Reason adds the Reason column.
	Reason bool
}

// Summary returns the one-line outcome of an analysis.
func Summary(r *domain.Report) string {
	if r.Empty() {
		return emptyMessage
	}

	return fmt.Sprintf("Found %d unique opportunities not yet used by client.", len(r.Opportunities))
}

// WriteCSV writes r as RFC 4180 CSV with a header row: URL, Status, the
// optional Reason and, when any opportunity is enriched, the enrichment
// columns. Rows keep the report order.
func WriteCSV(w io.Writer, r *domain.Report, opts Options) error {
	cw := csv.NewWriter(w)

	enriched := r.Enriched()
	header := []string{"URL", "Status"}
	if opts.Reason {
		header = append(header, "Reason")
	}
	if enriched {
		header = append(header, "Enrichment", "Relevance", "Quality", "Summary")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	if r != nil {
		for _, o := range r.Opportunities {
			row := []string{o.URL, string(o.Verdict.Status())}
			if opts.Reason {
				row = append(row, o.Verdict.Reason())
			}
			if enriched {
				row = append(row, enrichmentCells(o.Enrichment)...)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("could not write row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("could not flush CSV: %w", err)
	}

	return nil
}

func enrichmentCells(e *domain.Enrichment) []string {
	if e == nil {
		return []string{"", "", "", ""}
	}
	if e.Mode != domain.EnrichmentModeAI {
		return []string{string(e.Mode), "", "", e.Summary}
	}

	return []string{string(e.Mode), strconv.Itoa(e.Relevance), strconv.Itoa(e.Quality), e.Summary}
}

// WriteTable writes r as an aligned table no wider than width, followed by
// the summary line. Long URLs and reasons are shortened with "...".
func WriteTable(w io.Writer, r *domain.Report, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}

	if !r.Empty() {
		urlWidth := max(width/2, minURLWidth)
		statusWidth := len(domain.StatusLikelyGood)
		reasonWidth := max(width-urlWidth-statusWidth-4, 0)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "URL\tSTATUS\tREASON")
		for _, o := range r.Opportunities {
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				shorten(oneLine(o.URL), urlWidth), o.Verdict.Status(), shorten(o.Verdict.Reason(), reasonWidth))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("could not write table: %w", err)
		}
		fmt.Fprintln(w)
	}

	if _, err := fmt.Fprintln(w, Summary(r)); err != nil {
		return fmt.Errorf("could not write summary: %w", err)
	}

	return nil
}

// TerminalWidth returns the column count of f when it is a terminal, or
// DefaultWidth.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}

	return w
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}

	return string(r[:n-3]) + "..."
}

// oneLine keeps control characters of untrusted input out of the table.
func oneLine(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}

		return r
	}, s)
}
