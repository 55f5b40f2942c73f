package pythonhandler

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reqpin/requirement"
)

// DefaultRequirementsFile is the manifest pinned when nothing else is configured.
const DefaultRequirementsFile = "requirements.txt"

// ---------------------------
// Requirements Handler
// ---------------------------
type PythonHandler struct {
	File string // requirements file name relative to the project, or absolute
}

func (h *PythonHandler) Name() string { return "requirements" }

func (h *PythonHandler) path(projectDir string) string {
	file := h.File
	if file == "" {
		file = DefaultRequirementsFile
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(projectDir, file)
}

// Detect: the requirements file exists
func (h *PythonHandler) Detect(projectDir string) bool {
	info, err := os.Stat(h.path(projectDir))
	return err == nil && !info.IsDir()
}

// Scan returns the declared requirement lines with trailing flags removed.
func (h *PythonHandler) Scan(projectDir string) ([]string, error) {
	lines, err := ReadRequirements(h.path(projectDir))
	if err != nil {
		return nil, err
	}
	var declared []string
	for _, line := range lines {
		if requirement.Classify(line) != requirement.KindRequirement {
			continue
		}
		spec, _ := requirement.Split(line)
		declared = append(declared, spec)
	}
	return declared, nil
}

// ---------- requirements.txt ----------

// ReadRequirements returns the lines of a requirements file, trimmed.
func ReadRequirements(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// FormatRequirements joins lines into file content, one per line.
func FormatRequirements(lines []string) []byte {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
