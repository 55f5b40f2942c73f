package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"reqpin/requirement"
)

// CurationRule represents a single override in the curations file
type CurationRule struct {
	Key     string `yaml:"key"`     // package name
	Version string `yaml:"version"` // optional: pin this version instead of the installed one
	Hold    bool   `yaml:"hold"`    // optional: leave the requirement line untouched
	Reason  string `yaml:"reason"`  // optional note shown in logs
}

// Curations maps normalized package names to their rule.
type Curations map[string]CurationRule

// LoadCurations reads curation rules from a YAML list. An empty path yields
// no rules.
func LoadCurations(curationFile string) (Curations, error) {
	if curationFile == "" {
		return Curations{}, nil
	}
	data, err := os.ReadFile(curationFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read curation file: %w", err)
	}

	var rules []CurationRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse curation file: %w", err)
	}

	// Map rules by key for quick lookup
	curations := make(Curations, len(rules))
	for i, r := range rules {
		if r.Key == "" {
			return nil, fmt.Errorf("curation rule %d has no key", i+1)
		}
		if r.Hold && r.Version != "" {
			return nil, fmt.Errorf("curation rule %s: hold and version are mutually exclusive", r.Key)
		}
		curations[requirement.NormalizeName(r.Key)] = r
	}
	return curations, nil
}

// Lookup returns the rule for a package name in any spelling.
func (c Curations) Lookup(name string) (CurationRule, bool) {
	r, ok := c[requirement.NormalizeName(name)]
	return r, ok
}
