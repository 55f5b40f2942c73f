package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// DefaultTimeout bounds a whole run, interpreter and pip calls included.
const DefaultTimeout = 2 * time.Minute

// Index sources for installed packages.
const (
	IndexAuto = "auto"
	IndexPip  = "pip"
	IndexSite = "site"
)

// Config holds the settings of a run.
type Config struct {
	RequirementsFile string        `mapstructure:"requirements_file"` // File name relative to the project, or an absolute path
	Python           string        `mapstructure:"python"`            // Interpreter used for introspection and pip
	Index            string        `mapstructure:"index"`             // auto, pip or site
	SitePackages     []string      `mapstructure:"site_packages"`     // Extra directories searched before sys.path
	InstalledFile    string        `mapstructure:"installed_file"`    // pip list JSON snapshot used instead of the live environment
	DryRun           bool          `mapstructure:"dry_run"`           // Print a diff instead of writing
	Backup           bool          `mapstructure:"backup"`            // Copy the original file before rewriting
	BackupDir        string        `mapstructure:"backup_dir"`        // Where backups go; defaults to the file's directory
	Recursive        bool          `mapstructure:"recursive"`         // Pin every matching requirements file below the project
	CurationsFile    string        `mapstructure:"curations_file"`    // YAML curation rules
	Timeout          time.Duration `mapstructure:"timeout"`
	Log              LogConfig     `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// NewViper returns a viper instance with defaults and REQPIN_* environment
// bindings in place.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("requirements_file", "requirements.txt")
	v.SetDefault("python", "python3")
	v.SetDefault("index", IndexAuto)
	v.SetDefault("site_packages", []string{})
	v.SetDefault("installed_file", "")
	v.SetDefault("dry_run", false)
	v.SetDefault("backup", true)
	v.SetDefault("backup_dir", "")
	v.SetDefault("recursive", false)
	v.SetDefault("curations_file", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")

	v.SetEnvPrefix("REQPIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig layers the [tool.reqpin] table of the project's pyproject.toml
// and the config file over the defaults of v, then decodes the result.
// Environment variables and bound flags take precedence over both.
func LoadConfig(v *viper.Viper, projectDir, configFile string) (Config, error) {
	var cfg Config

	section, err := readPyProjectSection(filepath.Join(projectDir, "pyproject.toml"))
	if err != nil {
		return cfg, err
	}
	if section != nil {
		if err := v.MergeConfigMap(section); err != nil {
			return cfg, fmt.Errorf("failed to merge [tool.reqpin]: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".reqpin")
		v.AddConfigPath(projectDir)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the decoded values.
func (c Config) Validate() error {
	switch c.Index {
	case IndexAuto, IndexPip, IndexSite:
	default:
		return fmt.Errorf("invalid index source %q (want %s, %s or %s)", c.Index, IndexAuto, IndexPip, IndexSite)
	}
	if c.RequirementsFile == "" {
		return errors.New("requirements_file must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.InstalledFile == "" && c.Index == IndexSite && len(c.SitePackages) == 0 && c.Python == "" {
		return errors.New("index source site needs site_packages or a python interpreter")
	}
	return nil
}

type pyProjectTool struct {
	Tool struct {
		Reqpin map[string]any `toml:"reqpin"`
	} `toml:"tool"`
}

func readPyProjectSection(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc pyProjectTool
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return normalizeKeys(doc.Tool.Reqpin), nil
}

// pyproject tables conventionally use dashes; config keys use underscores
func normalizeKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		if sub, ok := val.(map[string]any); ok {
			val = normalizeKeys(sub)
		}
		out[strings.ReplaceAll(k, "-", "_")] = val
	}
	return out
}
