package live

import (
	"fmt"
	"time"
)

// Reduce applies an event to the UI state.
func Reduce(state State, event Event, now time.Time) State {
	switch event.Kind {
	case EventRunStart:
		state.RunDir = event.RunDir
		state.Scenario = event.Scenario
		if state.StartedAt.IsZero() {
			state.StartedAt = now
		}
		rows := make([]BranchRow, 0, len(event.Branches))
		for _, label := range event.Branches {
			rows = append(rows, BranchRow{Label: label, Status: BranchPending})
		}
		state.Rows = rows
	case EventBranchStart:
		state = updateRow(state, event.Label, func(row BranchRow) BranchRow {
			row.Status = BranchRunning
			row.TotalSteps = event.TotalSteps
			row.StartedAt = now
			return row
		})
	case EventStep:
		state = updateRow(state, event.Label, func(row BranchRow) BranchRow {
			row.Step = event.Step
			if event.TotalSteps > 0 {
				row.TotalSteps = event.TotalSteps
			}
			return row
		})
	case EventMeasurement:
		state = updateRow(state, event.Label, func(row BranchRow) BranchRow {
			row.Measurements++
			return row
		})
		state.LastEvent = fmt.Sprintf("%s: %s written (%d rows)", event.Label, event.Source, event.Rows)
	case EventBranchEnd:
		state = updateRow(state, event.Label, func(row BranchRow) BranchRow {
			row.FinishedAt = now
			if event.Error != "" {
				row.Status = BranchFailed
				row.Error = event.Error
			} else {
				row.Status = BranchDone
			}
			return row
		})
		if event.Error != "" {
			state.LastEvent = fmt.Sprintf("%s failed: %s", event.Label, event.Error)
		} else {
			state.LastEvent = fmt.Sprintf("%s finished", event.Label)
		}
	case EventRunEnd:
		state.LastEvent = "run complete"
	}
	state.Counts = recount(state.Rows)
	return state
}

// updateRow applies fn to the row with the given label, creating it when
// the run-start event never announced it.
func updateRow(state State, label string, fn func(BranchRow) BranchRow) State {
	for i, row := range state.Rows {
		if row.Label == label {
			state.Rows[i] = fn(row)
			return state
		}
	}
	state.Rows = append(state.Rows, fn(BranchRow{Label: label, Status: BranchPending}))
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []BranchRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case BranchPending:
			counts.Pending++
		case BranchRunning:
			counts.Running++
		case BranchDone:
			counts.Done++
		case BranchFailed:
			counts.Failed++
		}
	}
	return counts
}
