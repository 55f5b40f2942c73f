package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRequirementFilesNonRecursive(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	files, err := FindRequirementFiles(root, "requirements.txt", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "requirements.txt")}, files)

	abs := filepath.Join(t.TempDir(), "deps.txt")
	files, err = FindRequirementFiles(root, abs, true)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, files)
}

func TestFindRequirementFilesRecursive(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	for _, rel := range []string{
		"requirements.txt",
		"requirements-dev.txt",
		"requirements_test.txt",
		"requirements/base.txt",
		"services/api/requirements.txt",
		"services/api/README.md",
		"notes.txt",
		".venv/lib/requirements.txt",
		"node_modules/pkg/requirements.txt",
		"pkg.egg-info/requirements.txt",
	} {
		writeFile(t, filepath.Join(root, rel), "flask\n")
	}

	files, err := FindRequirementFiles(root, "requirements.txt", true)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"requirements-dev.txt",
		"requirements.txt",
		"requirements/base.txt",
		"requirements_test.txt",
		"services/api/requirements.txt",
	}, rels)
}
