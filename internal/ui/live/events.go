package live

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventBranchStart signals the start of a branch.
	EventBranchStart
	// EventStep delivers simulation step progress.
	EventStep
	// EventMeasurement reports a written measurement table.
	EventMeasurement
	// EventBranchEnd signals branch completion.
	EventBranchEnd
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	RunDir     string
	Scenario   string
	Branches   []string
	Label      string
	Step       int
	TotalSteps int
	Source     string
	Rows       int
	Error      string
}
