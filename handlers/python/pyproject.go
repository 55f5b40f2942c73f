package pythonhandler

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"reqpin/pep440"
	"reqpin/utils"
)

// ---------------------------
// pyproject.toml Handler (read-only)
// ---------------------------
type PyProjectHandler struct {
	Logger *utils.Logger
}

func (h *PyProjectHandler) Name() string { return "pyproject" }

func (h *PyProjectHandler) Detect(projectDir string) bool {
	_, err := os.Stat(filepath.Join(projectDir, "pyproject.toml"))
	return err == nil
}

func (h *PyProjectHandler) Scan(projectDir string) ([]string, error) {
	return ParsePyProject(filepath.Join(projectDir, "pyproject.toml"), h.Logger)
}

// ParsePyProject returns the declared dependencies of a pyproject.toml as
// PEP 508 strings, from [project].dependencies or, failing that, from
// [tool.poetry.dependencies]. Poetry entries that cannot be expressed as a
// PEP 440 specifier are skipped with a warning.
func ParsePyProject(path string, logger *utils.Logger) ([]string, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	// try PEP 621: [project] dependencies (array)
	if project, ok := tree["project"].(map[string]any); ok {
		if deps, ok := project["dependencies"].([]any); ok {
			return depsFromTomlArray(deps), nil
		}
	}
	// try poetry: [tool.poetry.dependencies] (table)
	if tool, ok := tree["tool"].(map[string]any); ok {
		if poetry, ok := tool["poetry"].(map[string]any); ok {
			if depTable, ok := poetry["dependencies"].(map[string]any); ok {
				return depsFromPoetryTable(depTable, logger), nil
			}
		}
	}
	return nil, nil
}

func depsFromTomlArray(arr []any) []string {
	var deps []string
	for _, it := range arr {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			deps = append(deps, strings.TrimSpace(s))
		}
	}
	return deps
}

func sortedKeys(tbl map[string]any) []string {
	names := make([]string, 0, len(tbl))
	for k := range tbl {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func depsFromPoetryTable(tbl map[string]any, logger *utils.Logger) []string {
	var deps []string
	for _, name := range sortedKeys(tbl) {
		if name == "python" {
			continue
		}
		var constraint string
		switch val := tbl[name].(type) {
		case string:
			constraint = val
		case map[string]any:
			// poetry can specify { version = "^1.0" }
			vs, ok := val["version"].(string)
			if !ok {
				continue // path, git or url dependency
			}
			constraint = vs
		default:
			continue
		}
		spec, err := PoetryConstraint(constraint)
		if err != nil {
			logger.Warnf("Skipping poetry dependency %s: %v", name, err)
			continue
		}
		deps = append(deps, name+spec)
	}
	return deps
}

// ErrPoetryAlternatives is returned for poetry constraints joined with "||",
// which have no PEP 440 equivalent.
var ErrPoetryAlternatives = errors.New("alternative constraints (||) cannot be expressed as a PEP 440 specifier")

// PoetryConstraint converts a poetry version constraint into a PEP 440
// specifier: "^1.2.3" becomes ">=1.2.3,<2.0.0", "~1.2" becomes ">=1.2,<1.3",
// a bare version becomes "==version" and "*" becomes the empty specifier.
// Clauses may be separated by commas or spaces. Constraints already written
// with PEP 440 operators pass through.
func PoetryConstraint(c string) (string, error) {
	if strings.Contains(c, "||") {
		return "", fmt.Errorf("%q: %w", c, ErrPoetryAlternatives)
	}
	var clauses []string
	for _, part := range poetryClauses(c) {
		switch {
		case part == "*":
			continue
		case strings.HasPrefix(part, "^"):
			v, err := pep440.Parse(part[1:])
			if err != nil {
				return "", err
			}
			clauses = append(clauses, ">="+v.String(), "<"+caretUpper(v.Release()))
		case strings.HasPrefix(part, "~") && !strings.HasPrefix(part, "~="):
			v, err := pep440.Parse(part[1:])
			if err != nil {
				return "", err
			}
			clauses = append(clauses, ">="+v.String(), "<"+tildeUpper(v.Release()))
		case strings.ContainsAny(part[:1], "<>=!~"):
			clauses = append(clauses, part)
		default:
			if _, err := pep440.Parse(part); err != nil {
				return "", err
			}
			clauses = append(clauses, "=="+part)
		}
	}
	spec := strings.Join(clauses, ",")
	if _, err := pep440.ParseSpecifierSet(spec); err != nil {
		return "", err
	}
	return spec, nil
}

// poetryClauses splits a constraint at commas and whitespace, keeping an
// operator written apart from its version (">= 2.0") as one clause.
func poetryClauses(c string) []string {
	var clauses []string
	pending := ""
	for _, tok := range strings.FieldsFunc(c, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		tok = strings.Trim(tok, `"'`)
		if tok == "" {
			continue
		}
		if strings.Trim(tok, "<>=!~^") == "" {
			pending += tok
			continue
		}
		clauses = append(clauses, pending+tok)
		pending = ""
	}
	if pending != "" {
		clauses = append(clauses, pending)
	}
	return clauses
}

// caretUpper bumps the leftmost non-zero release segment.
func caretUpper(release []string) string {
	for i, n := range release {
		if n != "0" || i == len(release)-1 {
			return bump(release, i)
		}
	}
	return bump(release, 0)
}

// tildeUpper bumps the minor segment, or the major one when only it is given.
func tildeUpper(release []string) string {
	if len(release) == 1 {
		return bump(release, 0)
	}
	return bump(release, 1)
}

func bump(release []string, i int) string {
	out := make([]string, len(release))
	for j := range release {
		switch {
		case j < i:
			out[j] = release[j]
		case j == i:
			n, _ := new(big.Int).SetString(release[j], 10)
			out[j] = n.Add(n, big.NewInt(1)).String()
		default:
			out[j] = "0"
		}
	}
	return strings.Join(out, ".")
}
