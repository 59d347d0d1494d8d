// Package rules implements the deterministic URL risk classifier. A URL is
// parsed once into a Target, then every rule of a fixed, ordered battery is
// evaluated against it; each rule that matches contributes its reason. Rules
// never short-circuit, so a verdict lists every applicable reason.
package rules

import (
	"fmt"

	"backlinks/pkg/domain"
)

// Evaluation is the detailed outcome of classifying one URL.
type Evaluation struct {
	// Target is the parsed URL.
	Target Target
	// Rules holds the names of the triggered rules, in evaluation order.
	Rules []string
	// Verdict is the public outcome.
	Verdict domain.Verdict
}

// Classifier evaluates URLs against a rule battery. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	rules []rule
}

// New builds a Classifier from cfg after validating it.
func New(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule configuration: %w", err)
	}

	return &Classifier{rules: buildRules(cfg)}, nil
}

// Default returns a Classifier using DefaultConfig.
func Default() *Classifier {
	c, err := New(DefaultConfig())
	if err != nil {
		panic(err) // DefaultConfig always validates
	}

	return c
}

// Classify returns the verdict for raw. It is a pure function of raw and
// never fails, whatever the input.
func (c *Classifier) Classify(raw string) domain.Verdict {
	return c.Evaluate(raw).Verdict
}

// Evaluate classifies raw and also reports the parsed target and the names
// of the triggered rules.
func (c *Classifier) Evaluate(raw string) Evaluation {
	t := Parse(raw)

	var names, reasons []string
	for _, r := range c.rules {
		if !r.match(t) {
			continue
		}
		names = append(names, r.name)
		reasons = append(reasons, r.reason)
	}

	return Evaluation{Target: t, Rules: names, Verdict: domain.NewVerdict(reasons)}
}

// Rules lists the active rule names in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		names = append(names, r.name)
	}

	return names
}
