package domain

import "strings"

// ReasonSeparator joins the reasons of a verdict when serialized.
const ReasonSeparator = "; "

// Status is the presentation label of a verdict.
type Status string

const (
	// StatusSpammy marks a URL that triggered at least one rule.
	StatusSpammy Status = "Spammy"
	// StatusLikelyGood marks a URL that triggered no rule.
	StatusLikelyGood Status = "Likely Good"
)

// Verdict is the outcome of classifying a single URL. Reasons are listed in
// rule evaluation order and never repeat; Flagged is true iff Reasons is
// non-empty.
type Verdict struct {
	Flagged bool     `json:"flagged"`
	Reasons []string `json:"reasons"`
}

// NewVerdict builds a Verdict from the triggered reasons, keeping
// Flagged consistent with Reasons.
func NewVerdict(reasons []string) Verdict {
	if len(reasons) == 0 {
		return Verdict{Reasons: []string{}}
	}

	return Verdict{Flagged: true, Reasons: reasons}
}

// Reason returns the reasons joined with ReasonSeparator, or "" when none
// triggered.
func (v Verdict) Reason() string {
	return strings.Join(v.Reasons, ReasonSeparator)
}

// Status maps the verdict to its presentation label.
func (v Verdict) Status() Status {
	if v.Flagged {
		return StatusSpammy
	}

	return StatusLikelyGood
}
