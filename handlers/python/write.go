package pythonhandler

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"reqpin/utils"
)

// WriteOptions control how a requirements file is replaced.
type WriteOptions struct {
	Backup    bool
	BackupDir string // empty: next to the file
	Root      string // backups under BackupDir mirror the file's path below Root
}

// WriteRequirements backs up the original file if asked to and atomically
// replaces it with lines. It returns the backup path, if any.
func WriteRequirements(path string, lines []string, opts WriteOptions) (string, error) {
	var backupPath string
	if opts.Backup {
		var err error
		backupPath, err = utils.BackupFile(path, opts.BackupDir, opts.Root)
		if err != nil {
			return "", fmt.Errorf("failed to backup %s: %w", path, err)
		}
	}
	if err := utils.WriteFileAtomic(path, FormatRequirements(lines)); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}

// Diff renders a unified diff between the current and the rewritten file.
// It is empty when nothing changes.
func Diff(path string, before, after []string) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(FormatRequirements(before))),
		B:        difflib.SplitLines(string(FormatRequirements(after))),
		FromFile: path,
		ToFile:   path + " (pinned)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", path, err)
	}
	return text, nil
}
