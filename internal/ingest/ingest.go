package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"edusim/internal/transcript"
)

// Summary reports what one ingestion pass touched.
type Summary struct {
	RunID        string
	Scenario     string
	Branches     int
	Events       int
	Measurements int
}

const (
	conditionPrefix = "condition_"
	resultsSuffix   = "_results.json"
)

// IngestRun loads one run directory (results/<scenario>/run_<ts>) into the
// store: the run row, one branch row per condition directory, all transcript
// events, and every row of every results table.
func IngestRun(ctx context.Context, db *sql.DB, runDir string) (Summary, error) {
	absDir, err := filepath.Abs(runDir)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve run dir: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return Summary{}, fmt.Errorf("stat run dir: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("run path %q is not a directory", runDir)
	}

	scenario := filepath.Base(filepath.Dir(absDir))
	runID, runKey, err := upsertRun(ctx, db, scenario, absDir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{RunID: runID, Scenario: scenario}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return Summary{}, fmt.Errorf("read run dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), conditionPrefix) {
			continue
		}
		label := strings.TrimPrefix(entry.Name(), conditionPrefix)
		branchDir := filepath.Join(absDir, entry.Name())
		events, measurements, err := ingestBranch(ctx, db, runID, runKey, label, branchDir)
		if err != nil {
			return Summary{}, fmt.Errorf("branch %s: %w", label, err)
		}
		summary.Branches++
		summary.Events += events
		summary.Measurements += measurements
	}
	return summary, nil
}

func upsertRun(ctx context.Context, db *sql.DB, scenario, runDir string) (string, string, error) {
	key, err := FingerprintJSON(map[string]interface{}{
		"scenario": scenario,
		"run":      filepath.Base(runDir),
	})
	if err != nil {
		return "", "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, run_key, scenario, run_dir, ingested_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (run_key) DO NOTHING`,
		id,
		key,
		scenario,
		runDir,
		time.Now().UTC(),
	); err != nil {
		return "", "", fmt.Errorf("upsert run: %w", err)
	}
	outID, err := lookupID(ctx, db, "runs", "run_id", "run_key", key)
	if err != nil {
		return "", "", fmt.Errorf("lookup run id: %w", err)
	}
	return outID, key, nil
}

func ingestBranch(ctx context.Context, db *sql.DB, runID, runKey, label, branchDir string) (int, int, error) {
	transcriptPath := filepath.Join(branchDir, transcript.FileName)
	events, err := transcript.ReadJSONL(transcriptPath)
	if err != nil {
		return 0, 0, fmt.Errorf("read transcript: %w", err)
	}

	branchKey, err := FingerprintJSON(map[string]interface{}{"run_key": runKey, "label": label})
	if err != nil {
		return 0, 0, err
	}
	branchID := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO branches (branch_id, branch_key, run_id, label, steps)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (branch_key) DO NOTHING`,
		branchID,
		branchKey,
		runID,
		label,
		len(events),
	); err != nil {
		return 0, 0, fmt.Errorf("upsert branch: %w", err)
	}
	branchID, err = lookupID(ctx, db, "branches", "branch_id", "branch_key", branchKey)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup branch id: %w", err)
	}

	inserted := 0
	for _, event := range events {
		eventKey, err := FingerprintJSON(map[string]interface{}{"branch_key": branchKey, "step": event.Step})
		if err != nil {
			return 0, 0, err
		}
		participants, err := json.Marshal(event.Participants)
		if err != nil {
			return 0, 0, fmt.Errorf("encode participants: %w", err)
		}
		if _, err := db.ExecContext(
			ctx,
			`INSERT INTO transcript_events (event_id, event_key, branch_id, step, scene, participants, event)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (event_key) DO NOTHING`,
			uuid.NewString(),
			eventKey,
			branchID,
			event.Step,
			event.Scene,
			string(participants),
			event.Event,
		); err != nil {
			return 0, 0, fmt.Errorf("insert event %d: %w", event.Step, err)
		}
		inserted++
	}

	measurements, err := ingestMeasurements(ctx, db, branchID, branchKey, branchDir)
	if err != nil {
		return 0, 0, err
	}
	return inserted, measurements, nil
}

// resultsDoc mirrors the JSON results file layout.
type resultsDoc struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

func ingestMeasurements(ctx context.Context, db *sql.DB, branchID, branchKey, branchDir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(branchDir, "*"+resultsSuffix))
	if err != nil {
		return 0, fmt.Errorf("list results: %w", err)
	}
	sort.Strings(matches)

	inserted := 0
	for _, path := range matches {
		source := strings.TrimSuffix(filepath.Base(path), resultsSuffix)
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		var doc resultsDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		for i, row := range doc.Rows {
			payload := make(map[string]interface{}, len(doc.Columns))
			for c, column := range doc.Columns {
				if c < len(row) {
					payload[column] = row[c]
				}
			}
			canonical, err := CanonicalJSON(payload)
			if err != nil {
				return 0, fmt.Errorf("encode %s row %d: %w", source, i, err)
			}
			rowKey, err := FingerprintJSON(map[string]interface{}{
				"branch_key": branchKey,
				"source":     source,
				"index":      i,
				"payload":    json.RawMessage(canonical),
			})
			if err != nil {
				return 0, err
			}
			if _, err := db.ExecContext(
				ctx,
				`INSERT INTO measurements (measurement_id, row_key, branch_id, source, row_index, payload)
				 VALUES (?, ?, ?, ?, ?, ?)
				 ON CONFLICT (row_key) DO NOTHING`,
				uuid.NewString(),
				rowKey,
				branchID,
				source,
				i,
				string(canonical),
			); err != nil {
				return 0, fmt.Errorf("insert %s row %d: %w", source, i, err)
			}
			inserted++
		}
	}
	return inserted, nil
}

func lookupID(ctx context.Context, db *sql.DB, table, idColumn, keyColumn, key string) (string, error) {
	query := fmt.Sprintf("SELECT CAST(%s AS VARCHAR) FROM %s WHERE %s = ?", idColumn, table, keyColumn)
	var id string
	if err := db.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}
