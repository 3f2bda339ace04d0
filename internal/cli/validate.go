package cli

import (
	"flag"
	"fmt"
	"io"

	"edusim/internal/config"
	"edusim/internal/scenario"
)

func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dir := fs.String("dir", DefaultScenariosDir, "Scenario files directory")
		configPath := fs.String("config", "", "Run config file to validate (optional)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		defs, err := scenario.LoadDir(*dir)
		if err != nil {
			fmt.Fprintf(stderr, "Scenario validation failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Scenarios OK (%d): %v\n", len(defs), scenario.Names(defs))

		if *configPath != "" {
			if _, err := config.Load(*configPath); err != nil {
				fmt.Fprintf(stderr, "Config validation failed:\n%v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Config OK: %s\n", *configPath)
		}
		return ExitOK
	}
}
