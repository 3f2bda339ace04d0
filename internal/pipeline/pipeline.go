// Package pipeline runs one scenario across its branches: the baseline and
// each intervention condition. Every branch gets a fresh roster and memory
// bank; branch failures are recorded and never stop the remaining branches.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"edusim/internal/agent"
	"edusim/internal/engine"
	"edusim/internal/memory"
	"edusim/internal/model"
	"edusim/internal/rubric"
	"edusim/internal/scene"
	"edusim/internal/survey"
	"edusim/internal/transcript"
)

// Branch is one condition: the pre scenes, an optional intervention
// insertion, and the post scenes.
type Branch struct {
	Label        string
	Pre          []scene.Spec
	Intervention []scene.Spec
	Post         []scene.Spec
}

// scenes returns the full ordered scene sequence of the branch.
func (b Branch) scenes() []scene.Spec {
	out := make([]scene.Spec, 0, len(b.Pre)+len(b.Intervention)+len(b.Post))
	out = append(out, b.Pre...)
	out = append(out, b.Intervention...)
	out = append(out, b.Post...)
	return out
}

// BranchResult records the outcome of one branch.
type BranchResult struct {
	Label string
	Dir   string
	Steps int
	Err   error
}

// Dependencies allows injecting clocks and stores for a run.
type Dependencies struct {
	// Now supplies the run timestamp; defaults to time.Now.
	Now func() time.Time
	// NewBank builds the branch memory bank; defaults to a sqlite file
	// inside the branch directory.
	NewBank func(branchDir string, embedder model.Embedder) (*memory.Bank, error)
	// Observer receives lifecycle events; defaults to NopObserver.
	Observer RunObserver
}

func (d *Dependencies) fill() {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewBank == nil {
		d.NewBank = func(branchDir string, embedder model.Embedder) (*memory.Bank, error) {
			return memory.NewBank(filepath.Join(branchDir, "memory.db"), embedder)
		}
	}
	if d.Observer == nil {
		d.Observer = NopObserver{}
	}
}

// Runner executes branches of one scenario.
type Runner struct {
	Backend model.Backend
	// Silent disables model calls; the transcript is structurally complete
	// with empty events.
	Silent bool

	Types          map[string]scene.TypeSpec
	SharedMemories []string
	// Populate builds the branch roster on a fresh factory.
	Populate func(ctx context.Context, factory *agent.Factory) error

	Instruments []*survey.Instrument
	Rubrics     []rubric.Rubric
	// SurveyPlayers limits questionnaire administration; empty means the
	// whole roster.
	SurveyPlayers []string
	// Responder overrides how survey answers are produced; defaults to the
	// in-character agent responder, or the median fallback when Silent.
	Responder survey.Responder

	Logger *zap.Logger
	Deps   Dependencies
}

// RunTimestampFormat names run directories in UTC.
const RunTimestampFormat = "20060102_150405"

// RunAll executes every branch sequentially under
// <outputRoot>/<scenario>/run_<UTC timestamp>/. A branch error is recorded
// in its result; later branches still run. The returned error covers only
// run-level failures such as an uncreatable run directory.
func (r *Runner) RunAll(ctx context.Context, outputRoot, scenario string, branches []Branch) (string, []BranchResult, error) {
	r.Deps.fill()
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runDir := filepath.Join(outputRoot, scenario, "run_"+r.Deps.Now().UTC().Format(RunTimestampFormat))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create run dir: %w", err)
	}

	labels := make([]string, 0, len(branches))
	for _, b := range branches {
		labels = append(labels, b.Label)
	}
	r.Deps.Observer.OnRunStart(runDir, scenario, labels)
	logger.Info("run started", zap.String("scenario", scenario), zap.String("dir", runDir), zap.Strings("branches", labels))

	results := make([]BranchResult, 0, len(branches))
	for _, branch := range branches {
		result := r.runBranch(ctx, runDir, branch)
		r.Deps.Observer.OnBranchEnd(branch.Label, result.Err)
		if result.Err != nil {
			logger.Error("branch failed", zap.String("branch", branch.Label), zap.Error(result.Err))
		} else {
			logger.Info("branch finished", zap.String("branch", branch.Label), zap.Int("steps", result.Steps))
		}
		results = append(results, result)
	}

	r.Deps.Observer.OnRunEnd(results)
	return runDir, results, nil
}

func (r *Runner) runBranch(ctx context.Context, runDir string, branch Branch) BranchResult {
	result := BranchResult{Label: branch.Label}
	if err := scene.ValidateLabel(branch.Label); err != nil {
		result.Err = err
		return result
	}
	dir := filepath.Join(runDir, "condition_"+branch.Label)
	result.Dir = dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Err = fmt.Errorf("create branch dir: %w", err)
		return result
	}

	bank, err := r.Deps.NewBank(dir, r.Backend.Embedder)
	if err != nil {
		result.Err = fmt.Errorf("open memory bank: %w", err)
		return result
	}
	defer bank.Close()

	factory := agent.NewFactory(bank)
	if r.Populate != nil {
		if err := r.Populate(ctx, factory); err != nil {
			result.Err = fmt.Errorf("populate roster: %w", err)
			return result
		}
	}
	roster := factory.Roster()
	names := make([]string, 0, len(roster))
	rosterSet := make(map[string]bool, len(roster))
	for name := range roster {
		names = append(names, name)
		rosterSet[name] = true
	}
	sort.Strings(names)

	scenes := branch.scenes()
	if err := scene.Validate(scenes, r.Types, rosterSet); err != nil {
		result.Err = err
		return result
	}
	windows := scene.Windows(scenes)
	total := scene.TotalRounds(scenes)
	result.Steps = total
	r.Deps.Observer.OnBranchStart(branch.Label, total)

	raw := &engine.RawLog{}
	masters := []engine.GameMaster{
		&engine.Initializer{
			Bank:           bank,
			SharedMemories: r.SharedMemories,
			Roster:         names,
			Scenes:         scenes,
			Types:          r.Types,
		},
		&engine.Dialogic{
			Model:   r.Backend.Model,
			Bank:    bank,
			Roster:  roster,
			Scenes:  scenes,
			Types:   r.Types,
			Windows: windows,
			Log:     raw,
			Silent:  r.Silent,
		},
	}
	if err := engine.RunLoop(ctx, masters, total, func(step, maxSteps int) {
		r.Deps.Observer.OnStep(branch.Label, step, maxSteps)
	}); err != nil {
		result.Err = err
		return result
	}

	entries := transcript.Normalize(raw, windows)
	if err := transcript.WriteJSONL(filepath.Join(dir, transcript.FileName), entries); err != nil {
		result.Err = err
		return result
	}

	if len(r.Instruments) > 0 {
		players := r.SurveyPlayers
		if len(players) == 0 {
			players = names
		}
		responder := r.Responder
		if responder == nil {
			if r.Silent {
				// Without a language model the deterministic median
				// fallback keeps every row answered and aggregable.
				responder = survey.MedianResponder(nil)
			} else {
				responder = survey.AgentResponder(r.Backend.Model, bank, roster)
			}
		}
		tables, err := survey.Administer(players, r.Instruments, responder)
		if err != nil {
			result.Err = fmt.Errorf("administer questionnaires: %w", err)
			return result
		}
		if err := survey.WriteTables(dir, tables); err != nil {
			result.Err = err
			return result
		}
		for name, table := range tables {
			r.Deps.Observer.OnMeasurement(branch.Label, "questionnaire", name, len(table.Rows))
		}
	}

	if len(r.Rubrics) > 0 {
		tables, err := rubric.ApplyAll(entries, r.Rubrics)
		if err != nil {
			result.Err = fmt.Errorf("apply rubrics: %w", err)
			return result
		}
		if err := rubric.WriteTables(dir, tables); err != nil {
			result.Err = err
			return result
		}
		for name, table := range tables {
			r.Deps.Observer.OnMeasurement(branch.Label, "rubric", name, len(table.Rows))
		}
	}

	return result
}
