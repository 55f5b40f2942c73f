package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCurations(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "curations.yml")
	writeFile(t, path, `
- key: Django
  version: 4.2.11
  reason: LTS line
- key: typing_extensions
  hold: true
`)

	curations, err := LoadCurations(path)
	require.NoError(t, err)
	require.Len(t, curations, 2)

	rule, ok := curations.Lookup("django")
	require.True(t, ok)
	assert.Equal(t, "4.2.11", rule.Version)
	assert.Equal(t, "LTS line", rule.Reason)

	rule, ok = curations.Lookup("Typing-Extensions")
	require.True(t, ok)
	assert.True(t, rule.Hold)

	_, ok = curations.Lookup("requests")
	assert.False(t, ok)
}

func TestLoadCurationsEmptyPath(t *testing.T) {
	t.Parallel()
	curations, err := LoadCurations("")
	require.NoError(t, err)
	assert.Empty(t, curations)
}

func TestLoadCurationsInvalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := LoadCurations(filepath.Join(dir, "missing.yml"))
	assert.ErrorContains(t, err, "failed to read curation file")

	noKey := filepath.Join(dir, "nokey.yml")
	writeFile(t, noKey, "- version: 1.0\n")
	_, err = LoadCurations(noKey)
	assert.ErrorContains(t, err, "has no key")

	both := filepath.Join(dir, "both.yml")
	writeFile(t, both, "- key: a\n  version: \"1.0\"\n  hold: true\n")
	_, err = LoadCurations(both)
	assert.ErrorContains(t, err, "mutually exclusive")

	notList := filepath.Join(dir, "map.yml")
	writeFile(t, notList, "key: a\n")
	_, err = LoadCurations(notList)
	assert.ErrorContains(t, err, "failed to parse curation file")
}
