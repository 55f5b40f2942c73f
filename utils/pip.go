package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. Standard error is folded into the returned
// error when the command fails.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s failed: %w\nOutput:\n%s", name, err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// RunPipList asks the interpreter's pip for the installed distributions.
func RunPipList(ctx context.Context, r Runner, python string) ([]Dependency, error) {
	args := []string{"-m", "pip", "list", "--format=json", "--disable-pip-version-check"}
	out, err := r.Run(ctx, python, args...)
	if err != nil {
		return nil, fmt.Errorf("pip list failed for %s: %w", python, err)
	}
	return ParsePipListJSON(out)
}
