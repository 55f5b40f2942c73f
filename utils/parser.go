package utils

import (
	"encoding/json"
	"fmt"
)

type pipListEntry struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Editable string `json:"editable_project_location,omitempty"`
}

// ParsePipListJSON parses the output of `pip list --format=json` and returns
// the installed distributions. Entries without a name or version are skipped.
func ParsePipListJSON(data []byte) ([]Dependency, error) {
	var entries []pipListEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid pip list output: %w", err)
	}

	deps := make([]Dependency, 0, len(entries))
	for _, e := range entries {
		dep := Dependency{Name: e.Name, Version: e.Version, Location: e.Editable}
		if clean := dep.Sanitize(); clean != nil {
			deps = append(deps, *clean)
		}
	}
	return deps, nil
}
