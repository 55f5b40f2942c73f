package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"reqpin/environment"
	"reqpin/utils"
)

type envReport struct {
	Environment environment.Info   `json:"environment"`
	Installed   []utils.Dependency `json:"installed"`
}

func newEnvCommand(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show the Python environment and its installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir(nil)
			if err != nil {
				return err
			}
			s, err := setup(cmd, o, dir)
			if err != nil {
				return err
			}
			defer s.Close()

			installed := s.index.All()
			if asJSON {
				enc := json.NewEncoder(o.out)
				enc.SetIndent("", "  ")
				return enc.Encode(envReport{Environment: s.info, Installed: installed})
			}

			s.info.Print(o.out)
			fmt.Fprintf(o.out, "Installed packages (%d):\n", len(installed))
			for _, d := range installed {
				fmt.Fprintf(o.out, "  %s==%s\n", d.Name, d.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
