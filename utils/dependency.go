package utils

import (
	"strings"

	"reqpin/requirement"
)

// Dependency is a distribution installed in the Python environment.
type Dependency struct {
	Name     string `json:"name"`               // Distribution name as recorded in its metadata
	Version  string `json:"version"`            // Installed version string
	Key      string `json:"key"`                // PEP 503 normalized name, used for lookups
	Location string `json:"location,omitempty"` // Directory the metadata was found in, if known
}

// Sanitize trims the fields and fills in Key. It returns nil when the
// dependency has no usable name or version.
func (d *Dependency) Sanitize() *Dependency {
	name := strings.TrimSpace(d.Name)
	version := strings.TrimSpace(d.Version)
	if name == "" || version == "" {
		return nil
	}
	return &Dependency{
		Name:     name,
		Version:  version,
		Key:      requirement.NormalizeName(name),
		Location: d.Location,
	}
}
