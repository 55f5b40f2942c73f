// Package requirement parses requirements.txt lines into PEP 508 dependency
// specifiers.
package requirement

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"reqpin/pep440"
)

// Kind classifies a requirements file line.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindOption
	KindRequirement
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindOption:
		return "option"
	default:
		return "requirement"
	}
}

var (
	nameRe       = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	identifierRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	separatorRe  = regexp.MustCompile(`[-_.]+`)
)

// Requirement is a parsed dependency specifier.
type Requirement struct {
	Name      string
	Extras    []string
	Specifier pep440.SpecifierSet
	URL       string
	Marker    string
}

// Classify reports what kind of line s is. s is expected to be trimmed.
func Classify(s string) Kind {
	switch {
	case s == "":
		return KindBlank
	case strings.HasPrefix(s, "#"):
		return KindComment
	case strings.HasPrefix(s, "-"):
		return KindOption
	default:
		return KindRequirement
	}
}

// Split separates the dependency specifier from trailing per-requirement
// options (tokens starting with "--") and inline comments. The flags are
// returned whitespace-collapsed.
func Split(line string) (spec string, flags string) {
	tokens := strings.Fields(line)
	for i, tok := range tokens {
		if i > 0 && (strings.HasPrefix(tok, "--") || strings.HasPrefix(tok, "#")) {
			return strings.Join(tokens[:i], " "), strings.Join(tokens[i:], " ")
		}
	}
	return strings.Join(tokens, " "), ""
}

// NormalizeName returns the PEP 503 normalized form of a distribution name.
func NormalizeName(name string) string {
	return strings.ToLower(separatorRe.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// Parse parses a PEP 508 dependency specifier such as
// `requests[security]>=2.8.1,==2.8.*; python_version < "2.7"`.
func Parse(s string) (Requirement, error) {
	s = strings.TrimSpace(s)
	name := nameRe.FindString(s)
	if name == "" {
		return Requirement{}, fmt.Errorf("expected package name at the start of %q", s)
	}
	req := Requirement{Name: name}
	rest := strings.TrimSpace(s[len(name):])

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return Requirement{}, fmt.Errorf("expected closing bracket for extras in %q", s)
		}
		extras, err := parseExtras(rest[1:end])
		if err != nil {
			return Requirement{}, fmt.Errorf("%w in %q", err, s)
		}
		req.Extras = extras
		rest = strings.TrimSpace(rest[end+1:])
	}

	var marker string
	var hasMarker bool
	if strings.HasPrefix(rest, "@") {
		rest = strings.TrimSpace(rest[1:])
		url, after, _ := strings.Cut(rest, " ")
		if url == "" {
			return Requirement{}, fmt.Errorf("expected URL after @ in %q", s)
		}
		req.URL = url
		after = strings.TrimSpace(after)
		if after != "" {
			if !strings.HasPrefix(after, ";") {
				return Requirement{}, fmt.Errorf("unexpected text %q after URL in %q", after, s)
			}
			marker, hasMarker = after[1:], true
		}
	} else {
		specText := rest
		if i := strings.Index(rest, ";"); i >= 0 {
			specText, marker, hasMarker = rest[:i], rest[i+1:], true
		}
		set, err := parseSpecifier(strings.TrimSpace(specText))
		if err != nil {
			return Requirement{}, fmt.Errorf("%w in %q", err, s)
		}
		req.Specifier = set
	}

	if hasMarker {
		req.Marker = strings.TrimSpace(marker)
		if req.Marker == "" {
			return Requirement{}, fmt.Errorf("expected marker after semicolon in %q", s)
		}
	}
	return req, nil
}

func parseExtras(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var extras []string
	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if !identifierRe.MatchString(e) {
			return nil, fmt.Errorf("invalid extra %q", e)
		}
		extras = append(extras, e)
	}
	return extras, nil
}

func parseSpecifier(s string) (pep440.SpecifierSet, error) {
	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return nil, errors.New("expected closing parenthesis for version specifier")
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s != "" && !strings.ContainsAny(s[:1], "<>=!~") {
		return nil, fmt.Errorf("unexpected text %q after package name", s)
	}
	return pep440.ParseSpecifierSet(s)
}

// Key returns the normalized name used for index lookups.
func (r Requirement) Key() string { return NormalizeName(r.Name) }

func (r Requirement) prefix() string {
	if len(r.Extras) == 0 {
		return r.Name
	}
	extras := append([]string(nil), r.Extras...)
	sort.Strings(extras)
	return r.Name + "[" + strings.Join(extras, ",") + "]"
}

func (r Requirement) suffix() string {
	if r.Marker == "" {
		return ""
	}
	return "; " + r.Marker
}

// String renders the requirement in canonical PEP 508 form.
func (r Requirement) String() string {
	if r.URL != "" {
		s := r.prefix() + " @ " + r.URL
		if r.Marker != "" {
			s += " ; " + r.Marker
		}
		return s
	}
	return r.prefix() + r.Specifier.String() + r.suffix()
}

// Pinned renders the requirement pinned to version, keeping extras and the
// environment marker. The version is written as given.
func (r Requirement) Pinned(version string) string {
	return r.prefix() + "==" + version + r.suffix()
}
