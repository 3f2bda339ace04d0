//go:build cucumber
// +build cucumber

package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"edusim/internal/cli"
)

// featureState holds scenario state for cucumber CLI tests.
type featureState struct {
	workDir      string
	scenariosDir string
	outputRoot   string
	stdout       bytes.Buffer
	stderr       bytes.Buffer
	exitCode     int
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a scenario library with the "([^"]+)" scenario$`, state.aScenarioLibraryWith)
	ctx.Step(`^a broken scenario file$`, state.aBrokenScenarioFile)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is (\d+)$`, state.theExitCodeIs)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the error output contains "([^"]+)"$`, state.theErrorOutputContains)
	ctx.Step(`^each condition directory contains a transcript file$`, state.eachConditionHasTranscript)
}

func (s *featureState) reset() error {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	dir, err := os.MkdirTemp("", "edusim-feature-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	s.workDir = dir
	s.scenariosDir = filepath.Join(dir, "scenarios")
	s.outputRoot = filepath.Join(dir, "results")
	if err := os.MkdirAll(s.scenariosDir, 0o755); err != nil {
		return fmt.Errorf("create scenarios dir: %w", err)
	}
	return nil
}

func (s *featureState) cleanup() {
	if s.workDir != "" {
		_ = os.RemoveAll(s.workDir)
	}
}

func (s *featureState) aScenarioLibraryWith(name string) error {
	doc := fmt.Sprintf(`name: %s
agents:
  - name: Leo
    role: student
  - name: Sam
    role: student
scene_types:
  chat:
    name: chat
    game_master_name: dialogic
pre_scenes:
  - scene_type: chat
    participants: [Leo, Sam]
    num_rounds: 2
interventions:
  - name: extra_chat
    output_label: extra_chat
    scenes:
      - scene_type: chat
        participants: [Leo, Sam]
        num_rounds: 1
questionnaires: [GAD7]
rubrics: [aggression]
`, name)
	path := filepath.Join(s.scenariosDir, name+".yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

func (s *featureState) aBrokenScenarioFile() error {
	path := filepath.Join(s.scenariosDir, "broken.yaml")
	doc := "name: broken\nagents: []\npre_scenes: []\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// iRunCommand executes a CLI command; $SCENARIOS and $OUT expand to the
// per-scenario temp directories.
func (s *featureState) iRunCommand(command string) error {
	command = strings.ReplaceAll(command, "$SCENARIOS", s.scenariosDir)
	command = strings.ReplaceAll(command, "$OUT", s.outputRoot)
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "edusim" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theExitCodeIs(expected int) error {
	if s.exitCode != expected {
		return fmt.Errorf("exit code %d, expected %d (stderr: %s)", s.exitCode, expected, s.stderr.String())
	}
	return nil
}

func (s *featureState) theOutputContains(text string) error {
	if !strings.Contains(s.stdout.String(), text) {
		return fmt.Errorf("expected %q in output, got %q", text, s.stdout.String())
	}
	return nil
}

func (s *featureState) theErrorOutputContains(text string) error {
	if !strings.Contains(s.stderr.String(), text) {
		return fmt.Errorf("expected %q in error output, got %q", text, s.stderr.String())
	}
	return nil
}

func (s *featureState) eachConditionHasTranscript() error {
	matches, err := filepath.Glob(filepath.Join(s.outputRoot, "*", "run_*", "condition_*"))
	if err != nil {
		return fmt.Errorf("list conditions: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no condition directories under %s", s.outputRoot)
	}
	for _, dir := range matches {
		transcript := filepath.Join(dir, "simulation_events.jsonl")
		if _, err := os.Stat(transcript); err != nil {
			return fmt.Errorf("missing transcript in %s: %w", dir, err)
		}
	}
	return nil
}
