package cli

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"edusim/internal/checkpoint"
)

// DefaultCheckpointDir is where simulation snapshots are stored.
const DefaultCheckpointDir = "checkpoints"

func runCheckpoints(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		dir := fs.String("dir", DefaultCheckpointDir, "Checkpoint directory")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		manager, err := checkpoint.NewManager(*dir)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		if fs.NArg() > 1 {
			fmt.Fprintln(stderr, "At most one checkpoint name is allowed.")
			return ExitUsage
		}
		if fs.NArg() == 1 {
			return showCheckpoint(manager, fs.Arg(0), stdout, stderr)
		}
		names, err := manager.List()
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		if len(names) == 0 {
			fmt.Fprintf(stdout, "No checkpoints under %s.\n", *dir)
			return ExitOK
		}
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
		return ExitOK
	}
}

// showCheckpoint prints one snapshot as indented JSON. A missing or failed
// snapshot reports cleanly instead of erroring.
func showCheckpoint(manager *checkpoint.Manager, name string, stdout, stderr io.Writer) int {
	var snapshot json.RawMessage
	restored, err := manager.Load(name, &snapshot, func() error { return nil })
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return ExitError
	}
	if !restored {
		fmt.Fprintf(stdout, "No usable checkpoint %q.\n", name)
		return ExitOK
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, snapshot, "", "  "); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return ExitError
	}
	fmt.Fprintln(stdout, pretty.String())
	return ExitOK
}
