// Package opportunity computes backlink opportunities: the URLs a competitor
// has that a client does not.
package opportunity

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Normalize returns the comparison form of a URL: trimmed and lowercased.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Set returns the distinct normalized forms of urls, sorted. Blank entries are
// treated as missing and dropped.
func Set(urls []string) []string {
	set := lo.Uniq(lo.FilterMap(urls, func(u string, _ int) (string, bool) {
		n := Normalize(u)

		return n, n != ""
	}))
	slices.Sort(set)

	return set
}

// Diff returns the sorted, deduplicated normalized URLs present in competitor
// but absent from client. The result never contains blank entries and does not
// depend on the order of either input.
func Diff(competitor, client []string) []string {
	only, _ := lo.Difference(Set(competitor), Set(client))

	return only
}
