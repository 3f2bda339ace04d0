package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edusim/internal/results"
	"edusim/internal/transcript"
)

func writeRun(t *testing.T) string {
	t.Helper()
	runDir := filepath.Join(t.TempDir(), "classroom_cheating", "run_20250601_120000")
	branchDir := filepath.Join(runDir, "condition_baseline")
	if err := os.MkdirAll(branchDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entries := []transcript.Entry{
		{Step: 1, Scene: "hallway_chat", Participants: []string{"Leo", "Sam"}, Event: "Leo: Hey."},
		{Step: 2, Scene: "hallway_chat", Participants: []string{"Leo", "Sam"}, Event: ""},
	}
	if err := transcript.WriteJSONL(filepath.Join(branchDir, transcript.FileName), entries); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	table := results.NewTable("player", "value")
	if err := table.Append("Leo", 3.0); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := results.WriteBoth(branchDir, "gad7", table); err != nil {
		t.Fatalf("write results: %v", err)
	}
	return runDir
}

func TestLoadRun(t *testing.T) {
	summary, err := LoadRun(writeRun(t))
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if summary.Scenario != "classroom_cheating" {
		t.Fatalf("scenario = %q", summary.Scenario)
	}
	if len(summary.Branches) != 1 {
		t.Fatalf("branches = %d", len(summary.Branches))
	}
	branch := summary.Branches[0]
	if branch.TranscriptRows != 2 || branch.SpokenRows != 1 {
		t.Fatalf("row counts: %+v", branch)
	}
	if len(branch.Tables) != 1 || branch.Tables[0].Source != "gad7" {
		t.Fatalf("tables: %+v", branch.Tables)
	}
}

func TestWriteProducesHTML(t *testing.T) {
	runDir := writeRun(t)
	path, err := Write(runDir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)
	for _, want := range []string{"classroom_cheating", "Condition: baseline", "gad7", "<td>Leo</td>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestLoadRunRejectsEmptyDir(t *testing.T) {
	if _, err := LoadRun(t.TempDir()); err == nil {
		t.Fatal("expected error for run dir without conditions")
	}
}
