package rules

import "strings"

// Rule names, in evaluation order.
const (
	RuleIPAddress         = "ip_address"
	RuleSpammyDomain      = "spammy_domain"
	RuleSuspiciousTLD     = "suspicious_tld"
	RuleChinesePattern    = "chinese_pattern"
	RuleFreeHosting       = "free_hosting"
	RuleNumericSubdomain  = "numeric_subdomain"
	RuleExcessiveNumbers  = "excessive_numbers"
	RuleSuspiciousKeyword = "suspicious_keyword"
	RuleCyrillicPath      = "cyrillic_path"
	RuleNestedDomain      = "nested_domain"
	RuleDeepPath          = "deep_path"
)

// Reasons reported by the rules above.
const (
	ReasonIPAddress         = "IP address used as domain"
	ReasonSpammyDomain      = "Domain contains spammy keyword or TLD"
	ReasonSuspiciousTLD     = "Suspicious country-code TLD"
	ReasonChinesePattern    = "Chinese domain or path pattern"
	ReasonFreeHosting       = "Low-quality or free hosting provider"
	ReasonNumericSubdomain  = "Subdomain starts with a number"
	ReasonExcessiveNumbers  = "Excessive numbers in domain name"
	ReasonSuspiciousKeyword = "Suspicious keyword in path or URL"
	ReasonCyrillicPath      = "Cyrillic characters in URL"
	ReasonNestedDomain      = "Nested subdomain or excessive domain depth"
	ReasonDeepPath          = "URL path is very deep"
)

const (
	cyrillicFirst = '\u0400'
	cyrillicLast  = '\u04ff'
)

// rule is one independent check of the battery.
type rule struct {
	name   string
	reason string
	match  func(t Target) bool
}

// buildRules returns the battery for cfg in its fixed evaluation order.
func buildRules(cfg Config) []rule {
	rs := []rule{
		{RuleIPAddress, ReasonIPAddress, func(t Target) bool {
			return IsIPAddress(t.Host)
		}},
		{RuleSpammyDomain, ReasonSpammyDomain, func(t Target) bool {
			return containsAny(t.RootDomain, cfg.SpammyDomainTerms)
		}},
		{RuleSuspiciousTLD, ReasonSuspiciousTLD, func(t Target) bool {
			return hasAnySuffix(t.RootDomain, cfg.SuspiciousTLDs)
		}},
		{RuleChinesePattern, ReasonChinesePattern, func(t Target) bool {
			if cfg.ChineseTLD == "" {
				return false
			}

			return strings.HasSuffix(t.RootDomain, cfg.ChineseTLD) || strings.Contains(t.FullURL, cfg.ChineseTLD+"/")
		}},
		{RuleFreeHosting, ReasonFreeHosting, func(t Target) bool {
			// a suffix is also a substring; Contains covers both cases
			return containsAny(t.RootDomain, cfg.FreeHosts)
		}},
		{RuleNumericSubdomain, ReasonNumericSubdomain, func(t Target) bool {
			first, _, _ := strings.Cut(t.Host, ".")

			return first != "" && first[0] >= '0' && first[0] <= '9'
		}},
		{RuleExcessiveNumbers, ReasonExcessiveNumbers, func(t Target) bool {
			return longestDigitRun(t.RootDomain) >= cfg.DigitRun
		}},
		{RuleSuspiciousKeyword, ReasonSuspiciousKeyword, func(t Target) bool {
			return containsAny(t.Path, cfg.URLKeywords) || containsAny(t.FullURL, cfg.URLKeywords)
		}},
		{RuleCyrillicPath, ReasonCyrillicPath, func(t Target) bool {
			return hasCyrillic(t.Path)
		}},
		{RuleNestedDomain, ReasonNestedDomain, func(t Target) bool {
			d := t.RootDomain
			if cfg.NestedDepthTarget == DepthTargetHost {
				d = t.Host
			}
			if d == "" {
				return false
			}

			return strings.Count(d, ".")+1 > cfg.MaxDomainLabels
		}},
	}

	if cfg.MaxPathDepth > 0 {
		rs = append(rs, rule{RuleDeepPath, ReasonDeepPath, func(t Target) bool {
			return pathDepth(t.Path) > cfg.MaxPathDepth
		}})
	}

	return rs
}

func containsAny(s string, terms []string) bool {
	if s == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}

	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	if s == "" {
		return false
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}

	return false
}

func longestDigitRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			run++
			longest = max(longest, run)

			continue
		}
		run = 0
	}

	return longest
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if r >= cyrillicFirst && r <= cyrillicLast {
			return true
		}
	}

	return false
}
