// Package environment inspects the Python environment a project runs in:
// the interpreter itself and the distributions installed for it.
package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"reqpin/utils"
)

const infoScript = `import json, os, platform, sys
print(json.dumps({
    "python_version": platform.python_version(),
    "executable": sys.executable,
    "system": platform.system(),
    "release": platform.release(),
    "platform": platform.platform(),
    "path": [p for p in sys.path if p and os.path.isdir(p)],
}))`

// Info describes the host environment.
type Info struct {
	PythonVersion string   `json:"python_version"`
	Executable    string   `json:"executable"`
	System        string   `json:"system"`
	Release       string   `json:"release"`
	Platform      string   `json:"platform"`
	Path          []string `json:"path"`
	WorkingDir    string   `json:"working_dir"`
}

// Inspect runs python once to collect interpreter details and its sys.path.
// When the interpreter cannot be run the returned Info still carries what Go
// knows about the host, together with the error.
func Inspect(ctx context.Context, r utils.Runner, python string) (Info, error) {
	info := fallbackInfo()

	out, err := r.Run(ctx, python, "-c", infoScript)
	if err != nil {
		return info, fmt.Errorf("failed to inspect interpreter %s: %w", python, err)
	}

	var got Info
	if err := json.Unmarshal(out, &got); err != nil {
		return info, fmt.Errorf("invalid interpreter output from %s: %w", python, err)
	}
	got.WorkingDir = info.WorkingDir
	return got, nil
}

func fallbackInfo() Info {
	wd, _ := os.Getwd()
	return Info{
		System:     runtime.GOOS,
		Platform:   runtime.GOOS + "-" + runtime.GOARCH,
		WorkingDir: wd,
	}
}

// Print writes the environment summary shown at the start of every run.
func (i Info) Print(w io.Writer) {
	fmt.Fprintf(w, "Python version: %s\n", valueOr(i.PythonVersion, "unknown"))
	fmt.Fprintf(w, "Python executable: %s\n", valueOr(i.Executable, "unknown"))
	fmt.Fprintf(w, "Operating System: %s\n", strings.TrimSpace(i.System+" "+i.Release))
	fmt.Fprintf(w, "Platform: %s\n", i.Platform)
	fmt.Fprintf(w, "Working directory: %s\n", i.WorkingDir)
	fmt.Fprint(w, "\n\n")
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
