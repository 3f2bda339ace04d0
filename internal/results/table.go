// Package results holds the tabular result representation shared by the
// surveyor and the rater, and its CSV / table-oriented JSON serialisations.
package results

import (
	"fmt"
	"math"
	"sort"
)

// Value is a single table cell. Supported kinds: string, int, float64, nil.
type Value interface{}

// Table is an ordered collection of rows with a fixed column order.
type Table struct {
	Columns []string
	Rows    [][]Value
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds one row. The number of values must match the column count.
func (t *Table) Append(values ...Value) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// SortStableBy sorts rows by the named columns, keeping insertion order for ties.
func (t *Table) SortStableBy(columns ...string) {
	indexes := make([]int, 0, len(columns))
	for _, name := range columns {
		for i, col := range t.Columns {
			if col == name {
				indexes = append(indexes, i)
				break
			}
		}
	}
	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, idx := range indexes {
			left := formatValue(t.Rows[a][idx])
			right := formatValue(t.Rows[b][idx])
			if left != right {
				return left < right
			}
		}
		return false
	})
}

// formatValue renders a cell for CSV output and sorting.
func formatValue(v Value) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return fmt.Sprintf("%d", value)
	case float64:
		if math.IsNaN(value) {
			return "NaN"
		}
		return trimFloat(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// trimFloat renders floats without trailing zeros ("3" not "3.000000").
func trimFloat(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%g", value)
}
