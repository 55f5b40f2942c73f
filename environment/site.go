package environment

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"reqpin/utils"
)

// maxScanWorkers bounds how many directories are read at once.
const maxScanWorkers = 8

// ScanSitePackages reads distribution metadata from every directory in dirs.
// Directories are scanned concurrently and merged in order, so a
// distribution found in an earlier directory shadows later copies.
// Directories that do not exist are skipped.
func ScanSitePackages(ctx context.Context, dirs []string) ([]utils.Dependency, error) {
	results := make([][]utils.Dependency, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxScanWorkers)
	for i, dir := range dirs {
		g.Go(func() error {
			deps, err := scanDir(ctx, dir)
			if err != nil {
				return err
			}
			results[i] = deps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return utils.MergeDependencies(results...), nil
}

func scanDir(ctx context.Context, dir string) ([]utils.Dependency, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var deps []utils.Dependency
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var dep utils.Dependency
		switch name := e.Name(); {
		case strings.HasSuffix(name, ".dist-info") && e.IsDir():
			dep = readDistribution(filepath.Join(dir, name, "METADATA"), name, ".dist-info")
		case strings.HasSuffix(name, ".egg-info") && e.IsDir():
			dep = readDistribution(filepath.Join(dir, name, "PKG-INFO"), name, ".egg-info")
		case strings.HasSuffix(name, ".egg-info"):
			dep = readDistribution(filepath.Join(dir, name), name, ".egg-info")
		default:
			continue
		}
		dep.Location = dir
		if clean := dep.Sanitize(); clean != nil {
			deps = append(deps, *clean)
		}
	}
	return deps, nil
}

// readDistribution takes Name and Version from the metadata file and falls
// back to the directory name (name-version.dist-info) for missing fields.
func readDistribution(metadataPath, dirName, suffix string) utils.Dependency {
	var dep utils.Dependency
	if f, err := os.Open(metadataPath); err == nil {
		dep = parseMetadata(f)
		f.Close()
	}

	if dep.Name == "" || dep.Version == "" {
		stem := strings.TrimSuffix(dirName, suffix)
		parts := strings.SplitN(stem, "-", 3)
		if len(parts) >= 2 {
			if dep.Name == "" {
				dep.Name = parts[0]
			}
			if dep.Version == "" {
				dep.Version = parts[1]
			}
		}
	}
	return dep
}

// parseMetadata reads the header block of a core metadata file.
func parseMetadata(r io.Reader) utils.Dependency {
	var dep utils.Dependency
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // body starts
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue // folded continuation of the previous field
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			if dep.Name == "" {
				dep.Name = strings.TrimSpace(value)
			}
		case "version":
			if dep.Version == "" {
				dep.Version = strings.TrimSpace(value)
			}
		}
		if dep.Name != "" && dep.Version != "" {
			break
		}
	}
	return dep
}
