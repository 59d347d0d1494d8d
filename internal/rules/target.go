package rules

import (
	"net/url"
	"regexp"
	"strings"
)

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// Target is the parsed view of a URL that every rule evaluates against.
// All fields are lowercase.
type Target struct {
	// Host is the network location without port, e.g. "blog.example.com".
	Host string
	// RootDomain is the last two labels of Host, or Host itself for IPv4
	// literals and single-label hosts.
	RootDomain string
	// Path is the decoded path portion, e.g. "/a/b".
	Path string
	// FullURL is the whole trimmed input URL.
	FullURL string
}

// Parse splits raw into the components used by the rule battery. It never
// fails. Input net/url rejects (a stray "%", a non-numeric port) is split
// structurally instead, so only input without an authority yields an empty Host.
func Parse(raw string) Target {
	full := strings.ToLower(strings.TrimSpace(raw))
	t := Target{FullURL: full}

	u, err := url.Parse(full)
	if err != nil {
		t.Host, t.Path = splitAuthority(full)
	} else {
		// Hostname strips the port and IPv6 brackets.
		t.Host = u.Hostname()
		t.Path = u.Path
	}
	// decoded escapes may carry uppercase letters
	t.Path = strings.ToLower(t.Path)
	t.RootDomain = RootDomain(t.Host)

	return t
}

// splitAuthority is the lenient fallback of Parse: the host is what sits
// between "://" and the first "/", "?" or "#", without userinfo and port.
func splitAuthority(full string) (host, path string) {
	_, rest, ok := strings.Cut(full, "://")
	if !ok {
		return "", ""
	}

	authority := rest
	rest = ""
	if i := strings.IndexAny(authority, "/?#"); i >= 0 {
		authority, rest = authority[:i], authority[i:]
	}
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		authority = authority[i+1:]
	}
	if strings.HasPrefix(authority, "[") {
		if end := strings.Index(authority, "]"); end > 0 {
			authority = authority[1:end]
		}
	} else if i := strings.LastIndex(authority, ":"); i >= 0 {
		authority = authority[:i]
	}

	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		rest = decoded
	}

	return authority, rest
}

// IsIPAddress reports whether host is four dot-separated groups of 1-3 digits.
// Octet ranges are not validated.
func IsIPAddress(host string) bool {
	return ipv4Pattern.MatchString(host)
}

// RootDomain returns the last two dot-separated labels of host. IPv4 literals
// and hosts with fewer than two labels are returned unchanged.
func RootDomain(host string) string {
	if IsIPAddress(host) {
		return host
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return host
	}

	return strings.Join(labels[len(labels)-2:], ".")
}

// pathDepth counts the non-empty segments of p.
func pathDepth(p string) int {
	n := 0
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			n++
		}
	}

	return n
}
