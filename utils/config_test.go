package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(NewViper(), t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "requirements.txt", cfg.RequirementsFile)
	assert.Equal(t, "python3", cfg.Python)
	assert.Equal(t, IndexAuto, cfg.Index)
	assert.Empty(t, cfg.SitePackages)
	assert.True(t, cfg.Backup)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.Log.Dir)
}

func TestLoadConfigPyProjectSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), `
[project]
name = "demo"

[tool.reqpin]
requirements-file = "requirements/prod.txt"
index = "site"
site-packages = ["/opt/site-packages"]
timeout = "30s"

[tool.reqpin.log]
level = "debug"
`)

	cfg, err := LoadConfig(NewViper(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, "requirements/prod.txt", cfg.RequirementsFile)
	assert.Equal(t, IndexSite, cfg.Index)
	assert.Equal(t, []string{"/opt/site-packages"}, cfg.SitePackages)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFileOverridesPyProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), "[tool.reqpin]\nindex = \"site\"\npython = \"python3.11\"\n")
	writeFile(t, filepath.Join(dir, ".reqpin.yaml"), "index: pip\nbackup: false\n")

	cfg, err := LoadConfig(NewViper(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, IndexPip, cfg.Index)
	assert.Equal(t, "python3.11", cfg.Python)
	assert.False(t, cfg.Backup)
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".reqpin.yaml"), "index: site\nsite_packages: [/a]\n")
	t.Setenv("REQPIN_INDEX", "pip")
	t.Setenv("REQPIN_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(NewViper(), dir, "")
	require.NoError(t, err)

	assert.Equal(t, IndexPip, cfg.Index)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(NewViper(), dir, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	writeFile(t, filepath.Join(dir, "bad.yaml"), "index: conda\n")
	_, err = LoadConfig(NewViper(), dir, filepath.Join(dir, "bad.yaml"))
	assert.ErrorContains(t, err, "invalid index source")

	broken := t.TempDir()
	writeFile(t, filepath.Join(broken, "pyproject.toml"), "[tool.reqpin\n")
	_, err = LoadConfig(NewViper(), broken, "")
	assert.ErrorContains(t, err, "failed to parse")
}
