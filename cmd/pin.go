package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	pythonhandler "reqpin/handlers/python"
	"reqpin/utils"
)

func newPinCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pin [project_path]",
		Short: "Pin requirements to the installed versions and sort them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPin(cmd, o, args)
		},
	}
}

func runPin(cmd *cobra.Command, o *options, args []string) error {
	dir, err := projectDir(args)
	if err != nil {
		return err
	}
	s, err := setup(cmd, o, dir)
	if err != nil {
		return err
	}
	defer s.Close()

	s.info.Print(o.out)

	curations, err := utils.LoadCurations(s.cfg.CurationsFile)
	if err != nil {
		return err
	}

	files, err := utils.FindRequirementFiles(dir, s.cfg.RequirementsFile, s.cfg.Recursive)
	if err != nil {
		return fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if len(files) == 0 {
		return &pythonhandler.NotFoundError{File: filepath.Base(s.cfg.RequirementsFile), Dir: dir}
	}

	var total utils.Summary
	for _, file := range files {
		report, err := pythonhandler.PinProject(s.ctx, pythonhandler.PinOptions{
			Path:      file,
			Index:     s.index,
			Curations: curations,
			DryRun:    s.cfg.DryRun,
			Write: pythonhandler.WriteOptions{
				Backup:    s.cfg.Backup,
				BackupDir: s.cfg.BackupDir,
				Root:      dir,
			},
			Logger: s.logger,
		})
		if err != nil {
			return err
		}
		printPinReport(o.out, report)
		s.logger.Infof("%s: %s", file, report.Result.Summary)
		total = addSummary(total, report.Result.Summary)
	}

	if len(files) > 1 {
		s.logger.Infof("Processed %d files: %s", len(files), total)
	}
	return nil
}

func addSummary(a, b utils.Summary) utils.Summary {
	return utils.Summary{
		Pinned:  a.Pinned + b.Pinned,
		Kept:    a.Kept + b.Kept,
		Held:    a.Held + b.Held,
		Missing: a.Missing + b.Missing,
		Errored: a.Errored + b.Errored,
	}
}
