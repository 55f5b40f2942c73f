package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reqpin/handlers"
	pythonhandler "reqpin/handlers/python"
)

// ErrIncompatible is returned by check when an installed package does not
// satisfy a declared requirement.
var ErrIncompatible = errors.New("incompatible dependencies found")

func newCheckCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [project_path]",
		Short: "Check declared requirements against the installed packages without writing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(args)
			if err != nil {
				return err
			}
			s, err := setup(cmd, o, dir)
			if err != nil {
				return err
			}
			defer s.Close()

			detected := 0
			incompatible := false
			for _, h := range handlers.GetHandlers(s.cfg.RequirementsFile, s.logger) {
				if !h.Detect(dir) {
					s.logger.Debugf("Handler %s: not detected in project", h.Name())
					continue
				}
				detected++

				declared, err := h.Scan(dir)
				if err != nil {
					s.logger.Errorf("Handler %s: scan error: %v", h.Name(), err)
					continue
				}
				res := pythonhandler.CheckCompatibility(declared, s.index, s.logger)
				printCheckReport(o.out, h.Name(), len(declared), res)
				if !res.Compatible() {
					incompatible = true
				}
			}

			if detected == 0 {
				return fmt.Errorf("no %s, pyproject.toml, Pipfile, environment.yml or setup.py found in %s", s.cfg.RequirementsFile, dir)
			}
			if incompatible {
				return ErrIncompatible
			}
			return nil
		},
	}
}
