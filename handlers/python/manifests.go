package pythonhandler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"reqpin/requirement"
	"reqpin/utils"
)

// declared validates a dependency string taken from a manifest. Entries that
// do not parse are logged and dropped so the rest of the manifest survives.
func declared(source, s string, logger *utils.Logger) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if _, err := requirement.Parse(s); err != nil {
		logger.Warnf("Skipping %s entry %q: %v", source, s, err)
		return "", false
	}
	return s, true
}

func readManifest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// ---------------------------
// Pipfile Handler (read-only)
// ---------------------------
type PipfileHandler struct {
	Logger *utils.Logger
}

func (h *PipfileHandler) Name() string { return "pipfile" }

func (h *PipfileHandler) Detect(projectDir string) bool {
	_, err := os.Stat(filepath.Join(projectDir, "Pipfile"))
	return err == nil
}

func (h *PipfileHandler) Scan(projectDir string) ([]string, error) {
	return ParsePipfile(filepath.Join(projectDir, "Pipfile"), h.Logger)
}

// ParsePipfile returns the [packages] of a Pipfile as PEP 508 strings. Git,
// path and editable entries carry no version and are left out.
func ParsePipfile(path string, logger *utils.Logger) ([]string, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	data, err := readManifest(path)
	if data == nil || err != nil {
		return nil, err
	}
	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	pkgs, ok := tree["packages"].(map[string]any)
	if !ok {
		return nil, nil
	}

	var deps []string
	for _, name := range sortedKeys(pkgs) {
		var version, extras, markers string
		switch v := pkgs[name].(type) {
		case string:
			version = v
		case map[string]any:
			vs, ok := v["version"].(string)
			if !ok {
				continue // git, path or file dependency
			}
			version = vs
			if list, ok := v["extras"].([]any); ok {
				var names []string
				for _, e := range list {
					if s, ok := e.(string); ok {
						names = append(names, s)
					}
				}
				if len(names) > 0 {
					extras = "[" + strings.Join(names, ",") + "]"
				}
			}
			if m, ok := v["markers"].(string); ok && m != "" {
				markers = "; " + m
			}
		default:
			continue
		}
		version = strings.TrimSpace(version)
		if version == "*" {
			version = ""
		}
		if dep, ok := declared("Pipfile", name+extras+version+markers, logger); ok {
			deps = append(deps, dep)
		}
	}
	return deps, nil
}

// ---------------------------
// Conda environment.yml Handler (read-only)
// ---------------------------
type CondaHandler struct {
	Logger *utils.Logger
}

var condaEnvFiles = []string{"environment.yml", "environment.yaml"}

func (h *CondaHandler) Name() string { return "conda" }

func (h *CondaHandler) path(projectDir string) string {
	for _, name := range condaEnvFiles {
		p := filepath.Join(projectDir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (h *CondaHandler) Detect(projectDir string) bool { return h.path(projectDir) != "" }

func (h *CondaHandler) Scan(projectDir string) ([]string, error) {
	p := h.path(projectDir)
	if p == "" {
		return nil, nil
	}
	return ParseCondaEnv(p, h.Logger)
}

// CondaEnv is the part of a conda environment file that declares packages.
type CondaEnv struct {
	Name         string `yaml:"name"`
	Dependencies []any  `yaml:"dependencies"`
}

// condaSkip are conda entries that are not Python distributions.
var condaSkip = map[string]bool{"python": true, "pip": true}

// ParseCondaEnv returns the dependencies of a conda environment file: conda
// match specs converted to PEP 440 (numpy=1.26 becomes numpy==1.26.*) and the
// entries of the pip: list as written.
func ParseCondaEnv(path string, logger *utils.Logger) ([]string, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	data, err := readManifest(path)
	if data == nil || err != nil {
		return nil, err
	}
	var env CondaEnv
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var deps []string
	for _, it := range env.Dependencies {
		switch v := it.(type) {
		case string:
			name, spec := condaMatchSpec(v)
			if condaSkip[requirement.NormalizeName(name)] {
				continue
			}
			if dep, ok := declared("conda", name+spec, logger); ok {
				deps = append(deps, dep)
			}
		case map[string]any:
			pipDeps, ok := v["pip"].([]any)
			if !ok {
				continue
			}
			for _, p := range pipDeps {
				s, ok := p.(string)
				if !ok || requirement.Classify(strings.TrimSpace(s)) != requirement.KindRequirement {
					continue // -r, -e and friends
				}
				spec, _ := requirement.Split(s)
				if dep, ok := declared("pip", spec, logger); ok {
					deps = append(deps, dep)
				}
			}
		}
	}
	return deps, nil
}

// condaMatchSpec splits "channel::name=version=build" into a name and a PEP
// 440 specifier. A single "=" is conda's fuzzy match and becomes a prefix
// match.
func condaMatchSpec(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	end := strings.IndexAny(s, "=<>!~ ")
	if end < 0 {
		return s, ""
	}
	name, rest := s[:end], strings.TrimSpace(s[end:])

	switch {
	case rest == "":
		return name, ""
	case strings.HasPrefix(rest, "=="), strings.ContainsAny(rest[:1], "<>!~"):
		return name, strings.ReplaceAll(rest, " ", "")
	}
	// "=1.26", "=1.26.*", "1.26" or "=1.26.4=py311_0"
	version := strings.TrimPrefix(rest, "=")
	if i := strings.IndexAny(version, "= "); i >= 0 {
		version = version[:i] // build string
	}
	version = strings.TrimSuffix(strings.TrimSuffix(version, "*"), ".")
	if version == "" {
		return name, ""
	}
	if _, err := requirement.Parse(name + "==" + version + ".*"); err == nil {
		return name, "==" + version + ".*"
	}
	return name, "==" + version
}

// ---------------------------
// setup.py Handler (read-only, conservative)
// ---------------------------
type SetupPyHandler struct {
	Logger *utils.Logger
}

func (h *SetupPyHandler) Name() string { return "setup.py" }

func (h *SetupPyHandler) Detect(projectDir string) bool {
	_, err := os.Stat(filepath.Join(projectDir, "setup.py"))
	return err == nil
}

func (h *SetupPyHandler) Scan(projectDir string) ([]string, error) {
	return ParseSetupPy(filepath.Join(projectDir, "setup.py"), h.Logger)
}

// ParseSetupPy extracts the string literals of a literal install_requires
// list. Requirements computed at runtime are not seen.
func ParseSetupPy(path string, logger *utils.Logger) ([]string, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	data, err := readManifest(path)
	if data == nil || err != nil {
		return nil, err
	}
	content := string(data)

	// simple heuristic: find install_requires = [ ... ]
	idx := strings.Index(content, "install_requires")
	if idx == -1 {
		return nil, nil
	}
	start := strings.Index(content[idx:], "[")
	if start == -1 {
		return nil, nil
	}
	literals, ok := stringLiterals(content[idx+start+1:])
	if !ok {
		logger.Warnf("install_requires in %s is not a closed list", path)
	}

	var deps []string
	for _, lit := range literals {
		if dep, ok := declared("setup.py", lit, logger); ok {
			deps = append(deps, dep)
		}
	}
	return deps, nil
}

// stringLiterals collects quoted strings up to the closing bracket of a list.
// Brackets inside strings (extras) do not end the list.
func stringLiterals(s string) ([]string, bool) {
	var out []string
	var quote byte
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case quote != 0 && c == quote:
			out = append(out, cur.String())
			cur.Reset()
			quote = 0
		case quote != 0:
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
				i += nl
			} else {
				return out, false
			}
		case c == ']':
			return out, true
		}
	}
	return out, false
}
