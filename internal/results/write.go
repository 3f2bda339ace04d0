package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// WriteCSV writes the table as UTF-8 CSV with a header row.
func WriteCSV(path string, table *Table) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatValue(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// tableJSON is the table-oriented JSON shape: column list plus row arrays.
type tableJSON struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// WriteJSON writes the table as table-oriented JSON. NaN cells become null.
func WriteJSON(path string, table *Table) error {
	rows := make([][]Value, len(table.Rows))
	for i, row := range table.Rows {
		out := make([]Value, len(row))
		for j, cell := range row {
			if f, ok := cell.(float64); ok && math.IsNaN(f) {
				out[j] = nil
				continue
			}
			out[j] = cell
		}
		rows[i] = out
	}
	if rows == nil {
		rows = [][]Value{}
	}
	payload, err := json.MarshalIndent(tableJSON{Columns: table.Columns, Rows: rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	payload = append(payload, '\n')
	return writeFile(path, payload)
}

// WriteBoth writes <prefix>_results.csv and <prefix>_results.json into dir.
func WriteBoth(dir, prefix string, table *Table) error {
	if err := WriteCSV(filepath.Join(dir, prefix+"_results.csv"), table); err != nil {
		return err
	}
	return WriteJSON(filepath.Join(dir, prefix+"_results.json"), table)
}

func writeFile(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
