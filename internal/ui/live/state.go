package live

import "time"

// BranchStatus buckets a branch row for display.
type BranchStatus string

const (
	BranchPending BranchStatus = "pending"
	BranchRunning BranchStatus = "running"
	BranchDone    BranchStatus = "done"
	BranchFailed  BranchStatus = "failed"
)

// BranchRow holds UI state for a single branch.
type BranchRow struct {
	Label        string
	Status       BranchStatus
	Step         int
	TotalSteps   int
	Measurements int
	Error        string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Pending int
	Running int
	Done    int
	Failed  int
}

// State captures the live UI state for a scenario run.
type State struct {
	RunDir    string
	Scenario  string
	StartedAt time.Time
	LastEvent string
	Rows      []BranchRow
	Counts    StatusCounts
}
