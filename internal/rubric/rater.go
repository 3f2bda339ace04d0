package rubric

import (
	"fmt"
	"strings"

	"edusim/internal/results"
	"edusim/internal/transcript"
)

// Apply rates every transcript entry against one rubric. An entry may match
// several items (one row per matching item); rows come out in transcript
// order, so reruns are byte-identical.
func Apply(entries []transcript.Entry, r Rubric) (*results.Table, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	table := results.NewTable("step", "scene", "agent", "rubric", "item", "option", "score", "severity", "evidence")
	for _, entry := range entries {
		speaker := transcript.Speaker(entry.Event)
		if r.TargetAgent != "" && speaker != r.TargetAgent {
			continue
		}
		for _, item := range r.Items {
			match, ok := item.MatchEvent(entry.Event)
			if !ok {
				continue
			}
			if err := table.Append(entry.Step, entry.Scene, speaker, r.Name, item.ID,
				match.Option, match.Score, match.Severity, match.Evidence); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// ApplyAll fans one transcript out over several rubrics, keyed by rubric name.
func ApplyAll(entries []transcript.Entry, rubrics []Rubric) (map[string]*results.Table, error) {
	tables := map[string]*results.Table{}
	for _, r := range rubrics {
		table, err := Apply(entries, r)
		if err != nil {
			return nil, fmt.Errorf("apply rubric %s: %w", r.Name, err)
		}
		tables[r.Name] = table
	}
	return tables, nil
}

// WriteTables persists one CSV/JSON pair per rubric into dir.
func WriteTables(dir string, tables map[string]*results.Table) error {
	for name, table := range tables {
		if err := results.WriteBoth(dir, strings.ToLower(name), table); err != nil {
			return fmt.Errorf("write %s results: %w", name, err)
		}
	}
	return nil
}
