package live

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the branch table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Branch", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Progress", Width: 14},
		{Title: "Tables", Width: 8},
		{Title: "Error", Width: 40},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.Label,
			string(row.Status),
			formatProgress(row),
			strconv.Itoa(row.Measurements),
			truncate(row.Error, 40),
		})
	}
	return rows
}

// formatProgress renders "step/total" progress for a branch.
func formatProgress(row BranchRow) string {
	if row.TotalSteps <= 0 {
		return ""
	}
	return strconv.Itoa(row.Step) + "/" + strconv.Itoa(row.TotalSteps)
}

// truncate shortens a string for a fixed-width column.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	if limit <= 3 {
		return text[:limit]
	}
	return text[:limit-3] + "..."
}
