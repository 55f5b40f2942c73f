package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

var ignoreDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	"node_modules":  true,
	"vendor":        true,
	"venv":          true,
	".venv":         true,
	".tox":          true,
	".nox":          true,
	"__pycache__":   true,
	"site-packages": true,
	"build":         true,
	"dist":          true,
	".idea":         true,
	".vscode":       true,
}

// FindRequirementFiles returns the requirements files to process. Without
// recursion that is just <root>/<name> (or name itself when absolute).
// Recursively, it walks root and collects every file matching name, its
// variants such as requirements-dev.txt, and .txt files inside a directory
// named after it (requirements/base.txt).
func FindRequirementFiles(root, name string, recursive bool) ([]string, error) {
	if filepath.IsAbs(name) {
		return []string{name}, nil
	}
	if !recursive {
		return []string{filepath.Join(root, name)}, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // ignore error and continue
		}

		// Skip symlinked entries
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if path != root && (ignoreDirs[d.Name()] || strings.HasSuffix(d.Name(), ".egg-info")) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchRequirementFile(path, name) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

func matchRequirementFile(path, name string) bool {
	base := filepath.Base(path)
	if base == name {
		return true
	}
	ext := filepath.Ext(name)
	if filepath.Ext(base) != ext {
		return false
	}
	stem := strings.TrimSuffix(name, ext)
	if strings.HasPrefix(base, stem+"-") || strings.HasPrefix(base, stem+"_") {
		return true
	}
	return filepath.Base(filepath.Dir(path)) == stem
}
