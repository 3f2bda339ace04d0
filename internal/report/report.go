// Package report renders an HTML summary of one finished run directory:
// branch outcomes, transcript sizes, and every measurement table.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"edusim/internal/transcript"
)

// FileName is the report file written into the run directory.
const FileName = "report.html"

// MeasurementTable is one results table loaded from a branch directory.
type MeasurementTable struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// BranchSummary describes one condition directory.
type BranchSummary struct {
	Label          string
	TranscriptRows int
	SpokenRows     int
	Tables         []MeasurementTable
}

// RunSummary is everything the report template needs.
type RunSummary struct {
	Scenario string
	RunDir   string
	Branches []BranchSummary
}

// LoadRun reads a run directory into a summary.
func LoadRun(runDir string) (RunSummary, error) {
	absDir, err := filepath.Abs(runDir)
	if err != nil {
		return RunSummary{}, fmt.Errorf("resolve run dir: %w", err)
	}
	summary := RunSummary{
		Scenario: filepath.Base(filepath.Dir(absDir)),
		RunDir:   absDir,
	}
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return RunSummary{}, fmt.Errorf("read run dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "condition_") {
			continue
		}
		branch, err := loadBranch(filepath.Join(absDir, entry.Name()), strings.TrimPrefix(entry.Name(), "condition_"))
		if err != nil {
			return RunSummary{}, fmt.Errorf("branch %s: %w", entry.Name(), err)
		}
		summary.Branches = append(summary.Branches, branch)
	}
	sort.Slice(summary.Branches, func(i, j int) bool {
		return summary.Branches[i].Label < summary.Branches[j].Label
	})
	if len(summary.Branches) == 0 {
		return RunSummary{}, fmt.Errorf("no condition directories under %s", runDir)
	}
	return summary, nil
}

func loadBranch(dir, label string) (BranchSummary, error) {
	branch := BranchSummary{Label: label}
	events, err := transcript.ReadJSONL(filepath.Join(dir, transcript.FileName))
	if err != nil {
		return BranchSummary{}, fmt.Errorf("read transcript: %w", err)
	}
	branch.TranscriptRows = len(events)
	for _, event := range events {
		if event.Event != "" {
			branch.SpokenRows++
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*_results.json"))
	if err != nil {
		return BranchSummary{}, fmt.Errorf("list results: %w", err)
	}
	sort.Strings(matches)
	for _, path := range matches {
		table, err := loadTable(path)
		if err != nil {
			return BranchSummary{}, err
		}
		branch.Tables = append(branch.Tables, table)
	}
	return branch, nil
}

func loadTable(path string) (MeasurementTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MeasurementTable{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var doc struct {
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return MeasurementTable{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	table := MeasurementTable{
		Source:  strings.TrimSuffix(filepath.Base(path), "_results.json"),
		Columns: doc.Columns,
	}
	for _, row := range doc.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = formatCell(value)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		text := fmt.Sprintf("%g", v)
		return text
	default:
		return fmt.Sprintf("%v", v)
	}
}
