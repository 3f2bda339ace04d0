package cli

import (
	"fmt"
	"io"

	"edusim/internal/report"
)

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		if len(args) != 1 {
			fmt.Fprintln(stderr, "Exactly one run directory is required.")
			return ExitUsage
		}
		path, err := report.Write(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report: %s\n", path)
		return ExitOK
	}
}
