package pep440

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Operator is a version comparison operator.
type Operator string

const (
	OpCompatible Operator = "~="
	OpEqual      Operator = "=="
	OpNotEqual   Operator = "!="
	OpLessEq     Operator = "<="
	OpGreaterEq  Operator = ">="
	OpLess       Operator = "<"
	OpGreater    Operator = ">"
	OpArbitrary  Operator = "==="
)

var clauseRe = regexp.MustCompile(`^\s*(~=|===|==|!=|<=|>=|<|>)\s*(\S+)\s*$`)

// Specifier is a single version clause such as ">=1.2" or "==2.*".
type Specifier struct {
	Op       Operator
	Raw      string // version text as written, without the wildcard suffix
	Wildcard bool
	version  Version
}

// ParseSpecifier parses one specifier clause.
func ParseSpecifier(s string) (Specifier, error) {
	m := clauseRe.FindStringSubmatch(s)
	if m == nil {
		return Specifier{}, fmt.Errorf("invalid specifier: %q", strings.TrimSpace(s))
	}
	spec := Specifier{Op: Operator(m[1]), Raw: m[2]}
	if spec.Op == OpArbitrary {
		// any string is allowed; keep a parsed form when there is one
		spec.version, _ = Parse(spec.Raw)
		return spec, nil
	}

	if strings.HasSuffix(spec.Raw, ".*") {
		if spec.Op != OpEqual && spec.Op != OpNotEqual {
			return Specifier{}, fmt.Errorf("invalid specifier %q: wildcard only allowed with == and !=", s)
		}
		spec.Wildcard = true
		spec.Raw = strings.TrimSuffix(spec.Raw, ".*")
	}

	v, err := Parse(spec.Raw)
	if err != nil {
		return Specifier{}, fmt.Errorf("invalid specifier %q: %w", strings.TrimSpace(s), err)
	}
	spec.version = v

	switch {
	case spec.Wildcard && (v.pre != nil || v.post != nil || v.dev != nil || v.local != nil):
		return Specifier{}, fmt.Errorf("invalid specifier %q: wildcard prefix must be a release", s)
	case spec.Op == OpCompatible && len(v.release) < 2:
		return Specifier{}, fmt.Errorf("invalid specifier %q: ~= needs at least two release segments", s)
	case v.local != nil && spec.Op != OpEqual && spec.Op != OpNotEqual:
		return Specifier{}, fmt.Errorf("invalid specifier %q: local versions only allowed with == and !=", s)
	}
	return spec, nil
}

// String renders the clause as written.
func (s Specifier) String() string {
	if s.Wildcard {
		return string(s.Op) + s.Raw + ".*"
	}
	return string(s.Op) + s.Raw
}

// Version returns the parsed clause version.
func (s Specifier) Version() Version { return s.version }

// Prereleases reports whether the clause explicitly admits pre-releases.
func (s Specifier) Prereleases() bool {
	switch s.Op {
	case OpEqual, OpGreaterEq, OpLessEq, OpCompatible, OpArbitrary:
		return !s.Wildcard && s.version.release != nil && s.version.IsPrerelease()
	}
	return false
}

// Matches reports whether v satisfies this single clause. Pre-release
// filtering is left to SpecifierSet.
func (s Specifier) Matches(v Version) bool {
	switch s.Op {
	case OpCompatible:
		prefix := Version{epoch: s.version.epoch, release: s.version.release[:len(s.version.release)-1]}
		return v.Public().Compare(s.version) >= 0 && prefixMatch(prefix, v)
	case OpEqual:
		return s.equal(v)
	case OpNotEqual:
		return !s.equal(v)
	case OpLessEq:
		return v.Public().Compare(s.version) <= 0
	case OpGreaterEq:
		return v.Public().Compare(s.version) >= 0
	case OpLess:
		if v.Compare(s.version) >= 0 {
			return false
		}
		if !s.version.IsPrerelease() && v.IsPrerelease() && v.BaseVersion().Equal(s.version.BaseVersion()) {
			return false
		}
		return true
	case OpGreater:
		if v.Compare(s.version) <= 0 {
			return false
		}
		same := v.BaseVersion().Equal(s.version.BaseVersion())
		if !s.version.IsPostRelease() && v.IsPostRelease() && same {
			return false
		}
		if v.local != nil && same {
			return false
		}
		return true
	case OpArbitrary:
		return strings.EqualFold(v.String(), s.Raw)
	}
	return false
}

func (s Specifier) equal(v Version) bool {
	if s.Wildcard {
		return prefixMatch(s.version, v)
	}
	if s.version.local == nil {
		v = v.Public()
	}
	return v.Equal(s.version)
}

// prefixMatch compares v's release, zero padded, against the release of
// prefix. Epochs must be equal.
func prefixMatch(prefix, v Version) bool {
	if prefix.epoch != v.epoch {
		return false
	}
	for i, n := range prefix.release {
		var got num
		if i < len(v.release) {
			got = v.release[i]
		}
		if cmpNum(got, n) != 0 {
			return false
		}
	}
	return true
}

// SpecifierSet is a conjunction of specifier clauses.
type SpecifierSet []Specifier

// ParseSpecifierSet parses a comma separated list of clauses. The empty
// string yields an empty set.
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	var set SpecifierSet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for _, part := range strings.Split(s, ",") {
		spec, err := ParseSpecifier(part)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

// Prereleases reports whether any clause admits pre-releases.
func (set SpecifierSet) Prereleases() bool {
	for _, s := range set {
		if s.Prereleases() {
			return true
		}
	}
	return false
}

// Contains reports whether v satisfies every clause. Pre-releases are only
// accepted when a clause explicitly names one.
func (set SpecifierSet) Contains(v Version) bool {
	if v.IsPrerelease() && !set.Prereleases() {
		return false
	}
	for _, s := range set {
		if !s.Matches(v) {
			return false
		}
	}
	return true
}

// String renders the clauses sorted and comma separated.
func (set SpecifierSet) String() string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = s.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
