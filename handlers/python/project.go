package pythonhandler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reqpin/environment"
	"reqpin/utils"
)

// ErrRequirementsNotFound is matched by the error PinProject returns when the
// requirements file does not exist.
var ErrRequirementsNotFound = errors.New("requirements file not found")

// NotFoundError names the missing requirements file.
type NotFoundError struct {
	File string
	Dir  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s file not found in %s", e.File, e.Dir)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrRequirementsNotFound }

// PinOptions configure PinProject.
type PinOptions struct {
	Path      string // requirements file
	Index     environment.Index
	Curations utils.Curations
	DryRun    bool
	Write     WriteOptions
	Logger    *utils.Logger
}

// Report is what PinProject did to one requirements file.
type Report struct {
	Path       string
	Result     Result
	Check      CheckResult
	Diff       string // set for dry runs
	BackupPath string
	Written    bool
}

// PinProject reads the requirements file, pins it against the index, writes
// it back sorted (unless DryRun) and checks the rewritten requirements for
// compatibility with what is installed.
func PinProject(ctx context.Context, opts PinOptions) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	info, err := os.Stat(opts.Path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, &NotFoundError{File: filepath.Base(opts.Path), Dir: filepath.Dir(opts.Path)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", opts.Path, err)
	}

	lines, err := ReadRequirements(opts.Path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Path: opts.Path}
	report.Result = Update(lines, opts.Index, opts.Curations, logger)
	logger.Debugf("Pinned %s: %s", opts.Path, report.Result.Summary)

	if opts.DryRun {
		report.Diff, err = Diff(opts.Path, lines, report.Result.Lines)
		if err != nil {
			return nil, err
		}
	} else {
		report.BackupPath, err = WriteRequirements(opts.Path, report.Result.Lines, opts.Write)
		if err != nil {
			return nil, err
		}
		if report.BackupPath != "" {
			logger.Infof("Backed up %s -> %s", opts.Path, report.BackupPath)
		}
		report.Written = true
	}

	report.Check = CheckCompatibility(report.Result.Updated, opts.Index, logger)
	return report, nil
}
