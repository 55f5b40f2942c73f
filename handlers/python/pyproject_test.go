package pythonhandler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"reqpin/utils"
)

func writePyProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0o644))
	return dir
}

func TestParsePyProjectPEP621(t *testing.T) {
	t.Parallel()
	dir := writePyProject(t, `
[project]
name = "demo"
dependencies = [
  "requests>=2.0",
  "flask[async] ~= 3.0",
]
`)
	h := &PyProjectHandler{}
	assert.True(t, h.Detect(dir))
	deps, err := h.Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests>=2.0", "flask[async] ~= 3.0"}, deps)
}

func TestParsePyProjectPoetry(t *testing.T) {
	t.Parallel()
	dir := writePyProject(t, `
[tool.poetry.dependencies]
python = "^3.10"
requests = "^2.28.1"
numpy = { version = "~1.26", optional = true }
local = { path = "../local" }
click = "*"
attrs = "23.2.0"
`)
	deps, err := ParsePyProject(filepath.Join(dir, "pyproject.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"attrs==23.2.0",
		"click",
		"numpy>=1.26,<1.27",
		"requests>=2.28.1,<3.0.0",
	}, deps)
}

func TestParsePyProjectMissing(t *testing.T) {
	t.Parallel()
	deps, err := ParsePyProject(filepath.Join(t.TempDir(), "pyproject.toml"), nil)
	require.NoError(t, err)
	assert.Nil(t, deps)
}

func TestPoetryConstraint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in  string
		out string
	}{
		{"^1.2.3", ">=1.2.3,<2.0.0"},
		{"^0.2.3", ">=0.2.3,<0.3.0"},
		{"^0.0.3", ">=0.0.3,<0.0.4"},
		{"^2", ">=2,<3"},
		{"~1.2.3", ">=1.2.3,<1.3.0"},
		{"~1", ">=1,<2"},
		{">=1.0,<2.0", ">=1.0,<2.0"},
		{"~=1.4", "~=1.4"},
		{"*", ""},
		{"1.0", "==1.0"},
		{">=2.0 <3.0", ">=2.0,<3.0"},
		{">= 1.10, < 2", ">=1.10,<2"},
		{"^1.2 !=1.2.5", ">=1.2,<2.0,!=1.2.5"},
		{"^99999999999999999999.1", ">=99999999999999999999.1,<100000000000000000000.0"},
	}
	for _, tt := range tests {
		got, err := PoetryConstraint(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.out, got, tt.in)
	}

	_, err := PoetryConstraint("^abc")
	assert.Error(t, err)

	_, err = PoetryConstraint("^1.20 || ^2.0")
	assert.ErrorIs(t, err, ErrPoetryAlternatives)

	_, err = PoetryConstraint(">=")
	assert.Error(t, err)
}

func TestParsePyProjectPoetrySkipsUnusableEntries(t *testing.T) {
	t.Parallel()
	dir := writePyProject(t, `
[tool.poetry.dependencies]
python = "^3.10"
flask = "^3.0"
numpy = "^1.20 || ^2.0"
pandas = ">=2.0 <3.0"
broken = "^not-a-version"
`)
	core, logs := observer.New(zap.WarnLevel)
	h := &PyProjectHandler{Logger: utils.NewZapLogger(zap.New(core))}

	deps, err := h.Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"flask>=3.0,<4.0", "pandas>=2.0,<3.0"}, deps)

	require.Equal(t, 2, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "Skipping poetry dependency broken")
	assert.Contains(t, logs.All()[1].Message, "Skipping poetry dependency numpy")
}
