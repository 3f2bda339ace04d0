package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"edusim/internal/scenario"
)

func runScenarios(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dir := fs.String("dir", DefaultScenariosDir, "Scenario files directory")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		defs, err := scenario.LoadDir(*dir)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load scenarios: %v\n", err)
			return ExitError
		}
		if len(defs) == 0 {
			fmt.Fprintf(stdout, "No scenarios under %s.\n", *dir)
			return ExitOK
		}
		for _, name := range scenario.Names(defs) {
			def := defs[name]
			line := name
			if desc := strings.TrimSpace(def.Description); desc != "" {
				line += " - " + desc
			}
			fmt.Fprintln(stdout, line)
			fmt.Fprintf(stdout, "    agents: %d, interventions: %d, questionnaires: %v, rubrics: %v\n",
				len(def.Agents), len(def.Interventions), def.Questionnaires, def.Rubrics)
		}
		return ExitOK
	}
}
