// Package ingest reads backlink exports into plain URL lists.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"backlinks/pkg/serrors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// URLColumn is the header, compared after trimming and case folding, of the
// column holding the URLs.
const URLColumn = "url"

// SchemaMessage is the message of the error returned when a table has no URL column.
const SchemaMessage = "Both files must contain a column named 'URL'"

// ReadURLs reads a CSV table with a header row and returns the values of its
// URL column in file order. Rows too short to reach the column yield an empty
// entry. UTF-8 input with or without a byte order mark and UTF-16 input with a
// byte order mark are accepted.
func ReadURLs(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, serrors.With(serrors.ErrSchema, SchemaMessage)
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read CSV header")
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), URLColumn) {
			col = i

			break
		}
	}
	if col < 0 {
		return nil, serrors.With(serrors.ErrSchema, SchemaMessage)
	}

	var urls []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read CSV row")
		}

		if col < len(record) {
			urls = append(urls, record[col])
		} else {
			urls = append(urls, "")
		}
	}

	return urls, nil
}

// ReadURLFile opens path and reads it with ReadURLs.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	urls, err := ReadURLs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return urls, nil
}
