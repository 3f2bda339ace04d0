package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"edusim/internal/ingest"
)

func runIngest(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dbPath := fs.String("db", "", "DuckDB database file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *dbPath == "" {
			fmt.Fprintln(stderr, "A database file is required: pass --db <file.duckdb>.")
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Exactly one run directory is required.")
			return ExitUsage
		}

		db, err := ingest.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open database: %v\n", err)
			return ExitError
		}
		defer db.Close()

		summary, err := ingest.IngestRun(context.Background(), db, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Ingest failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Ingested %s run %s: %d branches, %d events, %d measurement rows\n",
			summary.Scenario, summary.RunID, summary.Branches, summary.Events, summary.Measurements)
		return ExitOK
	}
}
