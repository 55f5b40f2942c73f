package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reqpin/environment"
	"reqpin/utils"
)

// options is the state shared by every command of one invocation.
type options struct {
	v          *viper.Viper
	configFile string
	runner     utils.Runner
	out        io.Writer
}

// session is what a command needs once config is loaded.
type session struct {
	cfg    utils.Config
	logger *utils.Logger
	info   environment.Info
	index  environment.Index
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) Close() {
	s.cancel()
	s.logger.Close()
}

// Execute runs the reqpin command line.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. The root command pins, like
// `reqpin pin`.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{v: utils.NewViper(), runner: utils.ExecRunner{}, out: os.Stdout})
}

func newRootCommand(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "reqpin [project_path]",
		Short: "reqpin - pin requirements.txt to the installed package versions",
		Long: `reqpin rewrites every entry of a requirements file to the version installed
in the current Python environment, sorts the file and reports requirements the
installed packages do not satisfy.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPin(cmd, o, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "Config file (default: .reqpin.yaml in the project)")
	flags.StringP("file", "f", "requirements.txt", "Requirements file, relative to the project or absolute")
	flags.String("python", "python3", "Python interpreter to inspect")
	flags.String("index", utils.IndexAuto, "Where installed packages are read from: auto, pip or site")
	flags.StringSlice("site-packages", nil, "Extra site-packages directories searched first")
	flags.String("installed", "", "pip list --format=json snapshot used instead of the live environment")
	flags.Bool("dry-run", false, "Print a diff instead of rewriting files")
	flags.Bool("backup", true, "Copy each file to <file>.bak before rewriting it")
	flags.Bool("no-backup", false, "Do not back up files before rewriting them")
	flags.String("backup-dir", "", "Directory for backups (default: next to the file)")
	flags.BoolP("recursive", "r", false, "Pin every requirements file below the project")
	flags.String("curations", "", "YAML file with curation rules")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-dir", "", "Also write a JSON log file to this directory")
	flags.Duration("timeout", utils.DefaultTimeout, "Overall time limit")

	for key, name := range map[string]string{
		"requirements_file": "file",
		"python":            "python",
		"index":             "index",
		"site_packages":     "site-packages",
		"installed_file":    "installed",
		"dry_run":           "dry-run",
		"backup":            "backup",
		"backup_dir":        "backup-dir",
		"recursive":         "recursive",
		"curations_file":    "curations",
		"log.level":         "log-level",
		"log.dir":           "log-dir",
		"timeout":           "timeout",
	} {
		_ = o.v.BindPFlag(key, flags.Lookup(name))
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if noBackup, _ := cmd.Flags().GetBool("no-backup"); noBackup {
			o.v.Set("backup", false)
		}
		return nil
	}

	root.AddCommand(newPinCommand(o))
	root.AddCommand(newCheckCommand(o))
	root.AddCommand(newEnvCommand(o))
	return root
}

func projectDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}
	return abs, nil
}

// setup loads config, starts logging and reads the installed packages.
func setup(cmd *cobra.Command, o *options, dir string) (*session, error) {
	cfg, err := utils.LoadConfig(o.v, dir, o.configFile)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Dir)
	if err != nil {
		return nil, err
	}
	if logger.Path != "" {
		logger.Debugf("Logging to %s", logger.Path)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	s := &session{cfg: cfg, logger: logger, ctx: ctx, cancel: cancel}

	s.info, err = environment.Inspect(ctx, o.runner, cfg.Python)
	if err != nil {
		logger.Warnf("%v; using host information only", err)
	}

	s.index, err = environment.Load(ctx, environment.LoadOptions{
		Source:       cfg.Index,
		Python:       cfg.Python,
		SitePackages: cfg.SitePackages,
		Snapshot:     cfg.InstalledFile,
		Info:         s.info,
		Runner:       o.runner,
		Logger:       logger,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to read installed packages: %w", err)
	}
	return s, nil
}
