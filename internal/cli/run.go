package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"edusim/internal/checkpoint"
	"edusim/internal/config"
	"edusim/internal/logging"
	"edusim/internal/model"
	"edusim/internal/pipeline"
	"edusim/internal/scenario"
	"edusim/internal/ui/live"
)

// DefaultScenariosDir is where scenario data files live.
const DefaultScenariosDir = "scenarios"

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		scenarioName := fs.String("scenario", "", "Scenario name to run")
		scenariosDir := fs.String("scenarios-dir", DefaultScenariosDir, "Scenario files directory")
		configPath := fs.String("config", "", "Run config file (optional; environment otherwise)")
		outputRoot := fs.String("output-root", "", "Override output root directory")
		uiMode := fs.String("ui", "", "UI mode: auto|live|plain")
		verbose := fs.Bool("verbose", false, "Verbose logging, disables the live UI")
		disableLM := fs.Bool("disable-lm", false, "Run without a language model backend")
		checkpointDir := fs.String("checkpoint-dir", DefaultCheckpointDir, "Directory for post-run snapshots")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		var cfg config.RunConfig
		if *configPath != "" {
			loaded, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
				return ExitError
			}
			cfg = loaded
		} else {
			cfg = config.FromEnv()
		}
		if *scenarioName != "" {
			cfg.Scenario = *scenarioName
		}
		if *outputRoot != "" {
			cfg.OutputRoot = *outputRoot
		}
		if *uiMode != "" {
			cfg.UIMode = *uiMode
		}
		if *verbose {
			cfg.Verbose = true
		}
		if *disableLM {
			cfg.Model.DisableLanguageModel = true
			cfg.Model.APIType = model.APITypeDisabled
		}
		config.Normalize(&cfg)
		if err := config.Validate(&cfg); err != nil {
			fmt.Fprintf(stderr, "Invalid config:\n%v\n", err)
			return ExitError
		}
		if cfg.Scenario == "" {
			fmt.Fprintln(stderr, "A scenario is required: pass --scenario <name>.")
			return ExitUsage
		}

		phase := scenario.PhaseAll
		switch fs.NArg() {
		case 0:
		case 1:
			switch fs.Arg(0) {
			case string(scenario.PhaseBaseline):
				phase = scenario.PhaseBaseline
			case string(scenario.PhaseInterventions):
				phase = scenario.PhaseInterventions
			default:
				fmt.Fprintf(stderr, "Unknown phase %q (expected baseline or interventions).\n", fs.Arg(0))
				return ExitUsage
			}
		default:
			fmt.Fprintln(stderr, "At most one phase argument is allowed.")
			return ExitUsage
		}

		defs, err := scenario.LoadDir(*scenariosDir)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load scenarios: %v\n", err)
			return ExitError
		}
		def, ok := defs[cfg.Scenario]
		if !ok {
			fmt.Fprintf(stderr, "Unknown scenario %q. Known: %v\n", cfg.Scenario, scenario.Names(defs))
			return ExitError
		}

		logger, err := logging.New(cfg.Verbose)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		defer func() { _ = logger.Sync() }()

		decision, err := resolveUIMode(cfg.UIMode, cfg.Verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		var deps pipeline.Dependencies
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{})
			deps.Observer = controller
		} else {
			deps.Observer = &plainObserver{out: stdout}
		}

		runDir, results, err := scenario.Run(context.Background(), cfg, def, phase, deps, logger)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Run complete: %s\n", runDir)
		failed := 0
		for _, result := range results {
			if result.Err != nil {
				failed++
				fmt.Fprintf(stderr, "Branch %s failed: %v\n", result.Label, result.Err)
				continue
			}
			fmt.Fprintf(stdout, "  %s: %d steps -> %s\n", result.Label, result.Steps, result.Dir)
		}
		if failed > 0 {
			fmt.Fprintf(stderr, "%d of %d branches failed.\n", failed, len(results))
		}

		if err := saveRunSnapshot(*checkpointDir, cfg.Scenario, phase, runDir, results); err != nil {
			// Snapshot failures never fail the run; the outputs on disk
			// are the source of truth.
			fmt.Fprintf(stderr, "Snapshot not saved: %v\n", err)
		}
		return ExitOK
	}
}

// runSnapshot is the post-run record saved under the checkpoint directory,
// keyed by scenario name so reruns overwrite older snapshots.
type runSnapshot struct {
	Scenario string           `json:"scenario"`
	Phase    string           `json:"phase"`
	RunDir   string           `json:"run_dir"`
	Branches []branchSnapshot `json:"branches"`
}

type branchSnapshot struct {
	Label string `json:"label"`
	Dir   string `json:"dir"`
	Steps int    `json:"steps"`
	Error string `json:"error,omitempty"`
}

func saveRunSnapshot(dir, scenarioName string, phase scenario.Phase, runDir string, results []pipeline.BranchResult) error {
	manager, err := checkpoint.NewManager(dir)
	if err != nil {
		return err
	}
	snapshot := runSnapshot{
		Scenario: scenarioName,
		Phase:    string(phase),
		RunDir:   runDir,
	}
	for _, result := range results {
		branch := branchSnapshot{Label: result.Label, Dir: result.Dir, Steps: result.Steps}
		if result.Err != nil {
			branch.Error = result.Err.Error()
		}
		snapshot.Branches = append(snapshot.Branches, branch)
	}
	return manager.Save(scenarioName, snapshot)
}

// plainObserver prints coarse progress lines without a live terminal UI.
type plainObserver struct {
	out io.Writer
}

func (o *plainObserver) OnRunStart(runDir string, scenarioName string, branches []string) {
	fmt.Fprintf(o.out, "Running %s (%d branches) -> %s\n", scenarioName, len(branches), runDir)
}

func (o *plainObserver) OnBranchStart(label string, totalSteps int) {
	fmt.Fprintf(o.out, "  %s: %d steps\n", label, totalSteps)
}

func (o *plainObserver) OnStep(string, int, int) {}

func (o *plainObserver) OnMeasurement(label string, kind string, name string, rows int) {
	fmt.Fprintf(o.out, "  %s: %s %s (%d rows)\n", label, kind, name, rows)
}

func (o *plainObserver) OnBranchEnd(label string, err error) {
	if err != nil {
		fmt.Fprintf(o.out, "  %s: failed\n", label)
		return
	}
	fmt.Fprintf(o.out, "  %s: done\n", label)
}

func (o *plainObserver) OnRunEnd([]pipeline.BranchResult) {}
