package pipeline

// RunObserver receives run lifecycle events for UI or logging.
type RunObserver interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runDir string, scenario string, branches []string)
	// OnBranchStart signals the start of a branch.
	OnBranchStart(label string, totalSteps int)
	// OnStep delivers simulation progress within a branch.
	OnStep(label string, step, totalSteps int)
	// OnMeasurement reports a written measurement table.
	OnMeasurement(label string, kind string, name string, rows int)
	// OnBranchEnd signals branch completion; err is nil on success.
	OnBranchEnd(label string, err error)
	// OnRunEnd signals run completion.
	OnRunEnd(results []BranchResult)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnRunStart(string, string, []string)       {}
func (NopObserver) OnBranchStart(string, int)                 {}
func (NopObserver) OnStep(string, int, int)                   {}
func (NopObserver) OnMeasurement(string, string, string, int) {}
func (NopObserver) OnBranchEnd(string, error)                 {}
func (NopObserver) OnRunEnd([]BranchResult)                   {}
