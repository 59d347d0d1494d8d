package ingest_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"backlinks/internal/ingest"
	"backlinks/pkg/serrors"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestReadURLs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "single column",
			in:   "URL\nhttp://a.com\nhttp://b.com\n",
			want: []string{"http://a.com", "http://b.com"},
		},
		{
			name: "header is trimmed and case folded",
			in:   "Domain Rating,  url \n50,http://a.com\n",
			want: []string{"http://a.com"},
		},
		{
			name: "first matching column wins",
			in:   "url,URL\nhttp://first.com,http://second.com\n",
			want: []string{"http://first.com"},
		},
		{
			name: "ragged rows yield empty entries",
			in:   "anchor,url\nclick here,http://a.com\nshort\n,\n",
			want: []string{"http://a.com", "", ""},
		},
		{
			name: "quoted values with commas",
			in:   "url,title\n\"http://a.com/?q=1,2\",\"A, B\"\n",
			want: []string{"http://a.com/?q=1,2"},
		},
		{
			name: "utf-8 byte order mark",
			in:   "\uFEFFURL\nhttp://a.com\n",
			want: []string{"http://a.com"},
		},
		{
			name: "header only",
			in:   "URL\n",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ingest.ReadURLs(strings.NewReader(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestReadURLs_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	in, err := enc.String("Url,Note\nhttp://example.com/привет,x\n")
	require.NoError(t, err)

	got, err := ingest.ReadURLs(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"http://example.com/привет"}, got)
}

func TestReadURLs_SchemaError(t *testing.T) {
	for _, in := range []string{"", "link,anchor\nhttp://a.com,a\n", "urls\nhttp://a.com\n"} {
		_, err := ingest.ReadURLs(strings.NewReader(in))
		require.Error(t, err)
		require.True(t, errors.Is(err, serrors.ErrSchema), "input %q", in)
		require.Equal(t, ingest.SchemaMessage, err.Error())
	}
}

func TestReadURLFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "competitor.csv")
	require.NoError(t, os.WriteFile(p, []byte("URL\nhttp://a.com\n"), 0o600))

	got, err := ingest.ReadURLFile(p)
	require.NoError(t, err)
	require.Equal(t, []string{"http://a.com"}, got)

	bad := filepath.Join(dir, "client.csv")
	require.NoError(t, os.WriteFile(bad, []byte("link\nhttp://a.com\n"), 0o600))
	_, err = ingest.ReadURLFile(bad)
	require.ErrorIs(t, err, serrors.ErrSchema)
	require.Contains(t, err.Error(), "client.csv")

	_, err = ingest.ReadURLFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	require.False(t, errors.Is(err, serrors.ErrSchema))
}
