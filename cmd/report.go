package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	pythonhandler "reqpin/handlers/python"
)

var (
	warnColor = color.New(color.FgYellow, color.Bold)
	okColor   = color.New(color.FgGreen)
	missColor = color.New(color.FgCyan)
)

func printPinReport(w io.Writer, r *pythonhandler.Report) {
	if r.Written {
		fmt.Fprintf(w, "Updated and sorted %s\n", r.Path)
	} else {
		if r.Diff != "" {
			fmt.Fprint(w, r.Diff)
		}
		fmt.Fprintf(w, "Would update and sort %s\n", r.Path)
	}
	if r.BackupPath != "" {
		fmt.Fprintf(w, "Backup written to %s\n", r.BackupPath)
	}
	printIncompatibilities(w, r.Check)
}

func printIncompatibilities(w io.Writer, res pythonhandler.CheckResult) {
	if res.Compatible() {
		okColor.Fprintln(w, "\nAll dependencies are compatible.")
		return
	}
	warnColor.Fprintln(w, "\nWarning: The following incompatibilities were found:")
	for _, inc := range res.Incompatibilities {
		fmt.Fprintf(w, "  - %s\n", inc)
	}
}

func printCheckReport(w io.Writer, handler string, declared int, res pythonhandler.CheckResult) {
	fmt.Fprintf(w, "%s: %d requirements checked\n", handler, declared)
	for _, name := range res.Missing {
		missColor.Fprintf(w, "  - %s is not installed\n", name)
	}
	for _, err := range res.Errors {
		fmt.Fprintf(w, "  - %v\n", err)
	}
	printIncompatibilities(w, res)
}
