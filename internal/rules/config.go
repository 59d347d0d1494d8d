package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DepthTarget selects which domain the nested-domain rule counts labels on.
type DepthTarget string

const (
	// DepthTargetRoot counts labels of the root domain. This is the canonical
	// behaviour; since the root domain has at most two labels the rule rarely
	// fires.
	DepthTargetRoot DepthTarget = "root"
	// DepthTargetHost counts labels of the full host.
	DepthTargetHost DepthTarget = "host"
)

// Config holds the keyword lists and thresholds of the rule battery. Start
// from DefaultConfig; the zero value does not validate.
type Config struct {
	// SpammyDomainTerms are substrings that flag a root domain.
	SpammyDomainTerms []string `yaml:"spammyDomainTerms"`
	// SuspiciousTLDs are suffixes that flag a root domain.
	SuspiciousTLDs []string `yaml:"suspiciousTLDs"`
	// ChineseTLD is the suffix (and ChineseTLD+"/" the URL fragment) of the
	// Chinese domain rule.
	ChineseTLD string `yaml:"chineseTLD"`
	// FreeHosts are free or low-quality hosting providers.
	FreeHosts []string `yaml:"freeHosts"`
	// URLKeywords are substrings that flag the path or the full URL.
	URLKeywords []string `yaml:"urlKeywords"`
	// DigitRun is the minimum run of consecutive digits in the root domain
	// that flags it.
	DigitRun int `yaml:"digitRun"`
	// MaxDomainLabels is the label count above which the nested-domain rule fires.
	MaxDomainLabels int `yaml:"maxDomainLabels"`
	// NestedDepthTarget picks the domain the nested-domain rule inspects.
	NestedDepthTarget DepthTarget `yaml:"nestedDepthTarget"`
	// MaxPathDepth enables the deep-path rule when positive.
	MaxPathDepth int `yaml:"maxPathDepth"`
}

// DefaultConfig returns the canonical rule table.
func DefaultConfig() Config {
	return Config{
		SpammyDomainTerms: []string{
			".xyz", ".info", ".icu", ".buzz", ".top", ".click", ".work", ".space", ".online", ".cam",
			"free", "cheap", "casino", "adult", "loan", "offer", "deal", "bonus",
		},
		SuspiciousTLDs: []string{".ru", ".cn", ".tk", ".ml", ".ga", ".cf", ".ua", ".art", ".pw"},
		ChineseTLD:     ".cn",
		FreeHosts: []string{
			"blogspot.com", "weebly.com", "000webhostapp.com", "x10host.com", "wordpress.com", "wixsite.com",
		},
		URLKeywords: []string{
			"download", "hack", "crack", "bet", "porno", "spyware", "txtpad", "seo", "backlink", "referral",
		},
		DigitRun:          4,
		MaxDomainLabels:   3,
		NestedDepthTarget: DepthTargetRoot,
	}
}

// Validate checks thresholds and lowercases every list entry so matching
// against the lowercase Target stays consistent.
func (c *Config) Validate() error {
	if c.DigitRun < 1 {
		return fmt.Errorf("digitRun must be positive, got %d", c.DigitRun)
	}
	if c.MaxDomainLabels < 1 {
		return fmt.Errorf("maxDomainLabels must be positive, got %d", c.MaxDomainLabels)
	}
	if c.MaxPathDepth < 0 {
		return fmt.Errorf("maxPathDepth must not be negative, got %d", c.MaxPathDepth)
	}
	switch c.NestedDepthTarget {
	case DepthTargetRoot, DepthTargetHost:
	case "":
		c.NestedDepthTarget = DepthTargetRoot
	default:
		return fmt.Errorf("unknown nestedDepthTarget %q", c.NestedDepthTarget)
	}

	// the lists may share backing arrays with the caller's config
	for _, list := range []*[]string{&c.SpammyDomainTerms, &c.SuspiciousTLDs, &c.FreeHosts, &c.URLKeywords} {
		*list = slices.Clone(*list)
		for i, term := range *list {
			(*list)[i] = strings.ToLower(strings.TrimSpace(term))
			if (*list)[i] == "" {
				return errors.New("empty term in rule configuration")
			}
		}
	}
	c.ChineseTLD = strings.ToLower(strings.TrimSpace(c.ChineseTLD))

	return nil
}

// LoadConfig reads a YAML rule file. Keys absent from the file keep their
// DefaultConfig value; lists present in the file replace the default list.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read rules file: %w", err)
	}

	return ParseConfig(b)
}

// ParseConfig decodes YAML rule configuration layered over DefaultConfig.
func ParseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("could not decode rules: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid rules: %w", err)
	}

	return cfg, nil
}
