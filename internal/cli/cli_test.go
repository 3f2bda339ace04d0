package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const miniScenario = `name: mini
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
`

func writeScenarioDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(miniScenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return dir
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout.String(), "edusim <command>") {
		t.Fatalf("usage missing: %s", stdout.String())
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--help"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d", code)
	}
	for _, name := range []string{"run", "scenarios", "validate", "ingest", "report", "checkpoints"} {
		if !strings.Contains(stdout.String(), name) {
			t.Fatalf("usage missing command %s", name)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"bogus"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command") {
		t.Fatalf("stderr: %s", stderr.String())
	}
}

func TestScenariosListsDefinitions(t *testing.T) {
	dir := writeScenarioDir(t)
	var stdout, stderr bytes.Buffer
	code := Run([]string{"scenarios", "--dir", dir}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "mini") {
		t.Fatalf("stdout: %s", stdout.String())
	}
}

func TestValidateReportsBrokenScenario(t *testing.T) {
	dir := t.TempDir()
	broken := strings.Replace(miniScenario, "GAD7", "MMPI", 1)
	if err := os.WriteFile(filepath.Join(dir, "mini.yaml"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := Run([]string{"validate", "--dir", dir}, &stdout, &stderr)
	if code != ExitError {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "validation failed") {
		t.Fatalf("stderr: %s", stderr.String())
	}
}

func TestRunCommandEndToEndDisabled(t *testing.T) {
	dir := writeScenarioDir(t)
	outputRoot := t.TempDir()
	ckptDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run",
		"--scenario", "mini",
		"--scenarios-dir", dir,
		"--output-root", outputRoot,
		"--checkpoint-dir", ckptDir,
		"--ui", "plain",
		"--disable-lm",
	}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Run complete:") {
		t.Fatalf("stdout: %s", stdout.String())
	}
	matches, err := filepath.Glob(filepath.Join(outputRoot, "mini", "run_*", "condition_*", "simulation_events.jsonl"))
	if err != nil || len(matches) != 2 {
		t.Fatalf("transcripts = %v (err %v)", matches, err)
	}

	// The run leaves a snapshot behind; checkpoints can list and show it.
	stdout.Reset()
	stderr.Reset()
	if code := Run([]string{"checkpoints", "--dir", ckptDir}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("checkpoints exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "mini") {
		t.Fatalf("snapshot not listed: %s", stdout.String())
	}
	stdout.Reset()
	if code := Run([]string{"checkpoints", "--dir", ckptDir, "mini"}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("checkpoints show exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"run_dir"`) || !strings.Contains(stdout.String(), "baseline") {
		t.Fatalf("snapshot body: %s", stdout.String())
	}
}

func TestRunCommandBaselineOnly(t *testing.T) {
	dir := writeScenarioDir(t)
	outputRoot := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run",
		"--scenario", "mini",
		"--scenarios-dir", dir,
		"--output-root", outputRoot,
		"--checkpoint-dir", t.TempDir(),
		"--ui", "plain",
		"--disable-lm",
		"baseline",
	}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	matches, _ := filepath.Glob(filepath.Join(outputRoot, "mini", "run_*", "condition_*"))
	if len(matches) != 1 || !strings.HasSuffix(matches[0], "condition_baseline") {
		t.Fatalf("conditions = %v", matches)
	}
}

func TestRunCommandUnknownScenario(t *testing.T) {
	dir := writeScenarioDir(t)
	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run", "--scenario", "nope", "--scenarios-dir", dir, "--ui", "plain", "--disable-lm",
	}, &stdout, &stderr)
	if code != ExitError {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "Unknown scenario") {
		t.Fatalf("stderr: %s", stderr.String())
	}
}

func TestRunCommandRejectsBadPhase(t *testing.T) {
	dir := writeScenarioDir(t)
	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run", "--scenario", "mini", "--scenarios-dir", dir, "--ui", "plain", "--disable-lm", "midway",
	}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
}

func TestIngestRequiresDBFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"ingest", "somewhere"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
}

func TestReportRequiresRunDir(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"report"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("exit = %d", code)
	}
}

func TestCheckpointsEmptyDir(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := Run([]string{"checkpoints", "--dir", dir}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "No checkpoints") {
		t.Fatalf("stdout: %s", stdout.String())
	}
	stdout.Reset()
	if code := Run([]string{"checkpoints", "--dir", dir, "ghost"}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "No usable checkpoint") {
		t.Fatalf("stdout: %s", stdout.String())
	}
}
