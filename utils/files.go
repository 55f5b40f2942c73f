package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/sys/atomicwriter"
)

// CopyFile copies a file from src to dst, creating or truncating dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy from %s to %s: %w", src, dst, err)
	}

	return out.Close()
}

// WriteFileAtomic replaces path with data so readers never observe a
// partially written file. The existing file mode is kept.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := atomicwriter.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// BackupFile copies path to <name>.bak next to it, or, when backupDir is set,
// to <backupDir>/<path relative to root>.bak so files with the same name in
// different directories keep separate backups. Files outside root are backed
// up under their base name. It returns the backup location.
func BackupFile(path, backupDir, root string) (string, error) {
	rel := filepath.Base(path)
	if backupDir == "" {
		backupDir = filepath.Dir(path)
	} else if root != "" {
		if r, err := filepath.Rel(root, path); err == nil && r != ".." &&
			!strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}

	backupPath := filepath.Join(backupDir, rel+".bak")
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir %s: %w", filepath.Dir(backupPath), err)
	}
	if err := CopyFile(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}
