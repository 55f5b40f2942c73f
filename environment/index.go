package environment

import (
	"context"
	"fmt"
	"os"
	"sort"

	"reqpin/requirement"
	"reqpin/utils"
)

// Index answers "which version of X is installed".
type Index interface {
	Lookup(name string) (utils.Dependency, bool)
	All() []utils.Dependency
}

// StaticIndex is an Index over a fixed list of dependencies.
type StaticIndex struct {
	deps  []utils.Dependency
	byKey map[string]utils.Dependency
}

// NewStaticIndex indexes deps by normalized name. When a name occurs more
// than once the first entry wins.
func NewStaticIndex(deps []utils.Dependency) *StaticIndex {
	idx := &StaticIndex{byKey: make(map[string]utils.Dependency, len(deps))}
	for _, d := range deps {
		if d.Key == "" {
			d.Key = requirement.NormalizeName(d.Name)
		}
		if _, ok := idx.byKey[d.Key]; ok {
			continue
		}
		idx.byKey[d.Key] = d
		idx.deps = append(idx.deps, d)
	}
	return idx
}

// Lookup finds a distribution by name in any spelling.
func (s *StaticIndex) Lookup(name string) (utils.Dependency, bool) {
	d, ok := s.byKey[requirement.NormalizeName(name)]
	return d, ok
}

// All returns the indexed distributions sorted by key.
func (s *StaticIndex) All() []utils.Dependency {
	out := append([]utils.Dependency(nil), s.deps...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// LoadOptions selects where installed packages are read from.
type LoadOptions struct {
	Source       string   // utils.IndexAuto, utils.IndexPip or utils.IndexSite
	Python       string   // interpreter for the pip source
	SitePackages []string // directories searched first
	Snapshot     string   // pip list JSON file; when set nothing else is consulted
	Info         Info     // interpreter details; its Path is searched after SitePackages
	Runner       utils.Runner
	Logger       *utils.Logger
}

// Load builds the installed-package index.
func Load(ctx context.Context, opts LoadOptions) (Index, error) {
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	if opts.Runner == nil {
		opts.Runner = utils.ExecRunner{}
	}

	if opts.Snapshot != "" {
		data, err := os.ReadFile(opts.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to read installed snapshot: %w", err)
		}
		deps, err := utils.ParsePipListJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Snapshot, err)
		}
		opts.Logger.Debugf("Loaded %d distributions from %s", len(deps), opts.Snapshot)
		return NewStaticIndex(deps), nil
	}

	dirs := append(append([]string(nil), opts.SitePackages...), opts.Info.Path...)

	source := opts.Source
	if source == utils.IndexAuto {
		source = utils.IndexSite
		if len(dirs) == 0 {
			opts.Logger.Debugf("No site-packages directories known, asking pip instead")
			source = utils.IndexPip
		}
	}

	var deps []utils.Dependency
	var err error
	switch source {
	case utils.IndexSite:
		opts.Logger.Debugf("Scanning %d site-packages directories", len(dirs))
		deps, err = ScanSitePackages(ctx, dirs)
	case utils.IndexPip:
		opts.Logger.Debugf("Running pip list with %s", opts.Python)
		deps, err = utils.RunPipList(ctx, opts.Runner, opts.Python)
	default:
		return nil, fmt.Errorf("unknown index source %q", opts.Source)
	}
	if err != nil {
		return nil, err
	}

	opts.Logger.Debugf("Found %d installed distributions", len(deps))
	return NewStaticIndex(deps), nil
}
