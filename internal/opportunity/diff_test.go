package opportunity_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"backlinks/internal/opportunity"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name       string
		competitor []string
		client     []string
		want       []string
	}{
		{
			name:       "single new link",
			competitor: []string{"http://good-example.com/page"},
			want:       []string{"http://good-example.com/page"},
		},
		{
			name: "both empty",
			want: []string{},
		},
		{
			name:       "client already has everything",
			competitor: []string{"http://a.com", "http://b.com"},
			client:     []string{"http://b.com", "http://a.com", "http://c.com"},
			want:       []string{},
		},
		{
			name:       "comparison ignores case and surrounding whitespace",
			competitor: []string{"  HTTP://A.com/X ", "http://b.com"},
			client:     []string{"http://a.com/x"},
			want:       []string{"http://b.com"},
		},
		{
			name:       "duplicates collapse and output is sorted",
			competitor: []string{"http://z.com", "http://a.com", "HTTP://Z.COM", "http://m.com"},
			want:       []string{"http://a.com", "http://m.com", "http://z.com"},
		},
		{
			name:       "blank entries are dropped on both sides",
			competitor: []string{"", "   ", "http://a.com", "\t"},
			client:     []string{"", "http://b.com"},
			want:       []string{"http://a.com"},
		},
		{
			name:       "paths are not canonicalized",
			competitor: []string{"http://a.com/", "http://a.com"},
			client:     []string{"http://a.com"},
			want:       []string{"http://a.com/"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := opportunity.Diff(tc.competitor, tc.client)
			require.Equal(t, tc.want, got)
			require.Equal(t, got, opportunity.Diff(tc.competitor, tc.client))
		})
	}
}

func TestDiff_OrderIndependent(t *testing.T) {
	competitor := []string{
		"http://e.com", "http://a.com/1", "http://c.org", "http://b.net", "http://a.com/2", "http://d.io",
	}
	client := []string{"http://c.org", "http://x.com", "HTTP://D.IO"}
	want := opportunity.Diff(competitor, client)
	require.Equal(t, []string{"http://a.com/1", "http://a.com/2", "http://b.net", "http://e.com"}, want)

	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		c, k := slices.Clone(competitor), slices.Clone(client)
		r.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
		r.Shuffle(len(k), func(i, j int) { k[i], k[j] = k[j], k[i] })
		require.Equal(t, want, opportunity.Diff(c, k))
	}
}

func TestDiff_Membership(t *testing.T) {
	competitor := []string{"http://a.com", " http://B.com", "http://c.com", "http://a.com"}
	client := []string{"http://c.com"}

	got := opportunity.Diff(competitor, client)
	compSet := opportunity.Set(competitor)
	clientSet := opportunity.Set(client)

	for _, u := range got {
		require.Contains(t, compSet, u)
		require.NotContains(t, clientSet, u)
	}
	for _, u := range compSet {
		if !slices.Contains(clientSet, u) {
			require.Equal(t, 1, countOf(got, u), "url %q", u)
		}
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "http://example.com/a", opportunity.Normalize("  HTTP://Example.com/A\n"))
	require.Equal(t, "", opportunity.Normalize(" \t "))
}

func countOf(s []string, v string) int {
	n := 0
	for _, e := range s {
		if e == v {
			n++
		}
	}

	return n
}
