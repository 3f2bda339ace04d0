package live

import (
	"testing"
	"time"
)

func at(sec int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, sec, 0, time.UTC)
}

func TestReduceRunStartSeedsPendingRows(t *testing.T) {
	state := Reduce(State{}, Event{
		Kind:     EventRunStart,
		RunDir:   "results/classroom/run_x",
		Scenario: "classroom",
		Branches: []string{"baseline", "teacher_checkin"},
	}, at(0))
	if len(state.Rows) != 2 {
		t.Fatalf("rows = %d", len(state.Rows))
	}
	if state.Counts.Pending != 2 {
		t.Fatalf("pending = %d", state.Counts.Pending)
	}
	if state.StartedAt.IsZero() {
		t.Fatal("StartedAt not set")
	}
}

func TestReduceBranchLifecycle(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventRunStart, Branches: []string{"baseline"}}, at(0))
	state = Reduce(state, Event{Kind: EventBranchStart, Label: "baseline", TotalSteps: 10}, at(1))
	if state.Rows[0].Status != BranchRunning || state.Rows[0].TotalSteps != 10 {
		t.Fatalf("after start: %+v", state.Rows[0])
	}
	state = Reduce(state, Event{Kind: EventStep, Label: "baseline", Step: 4, TotalSteps: 10}, at(2))
	if state.Rows[0].Step != 4 {
		t.Fatalf("step = %d", state.Rows[0].Step)
	}
	state = Reduce(state, Event{Kind: EventMeasurement, Label: "baseline", Source: "questionnaire GAD7", Rows: 14}, at(3))
	if state.Rows[0].Measurements != 1 {
		t.Fatalf("measurements = %d", state.Rows[0].Measurements)
	}
	state = Reduce(state, Event{Kind: EventBranchEnd, Label: "baseline"}, at(4))
	if state.Rows[0].Status != BranchDone {
		t.Fatalf("status = %s", state.Rows[0].Status)
	}
	if state.Counts.Done != 1 {
		t.Fatalf("done = %d", state.Counts.Done)
	}
}

func TestReduceBranchFailure(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventRunStart, Branches: []string{"bad"}}, at(0))
	state = Reduce(state, Event{Kind: EventBranchEnd, Label: "bad", Error: "unknown scene type"}, at(1))
	if state.Rows[0].Status != BranchFailed {
		t.Fatalf("status = %s", state.Rows[0].Status)
	}
	if state.Counts.Failed != 1 {
		t.Fatalf("failed = %d", state.Counts.Failed)
	}
	if state.LastEvent == "" {
		t.Fatal("LastEvent empty after failure")
	}
}

func TestReduceUnannouncedBranchIsCreated(t *testing.T) {
	state := Reduce(State{}, Event{Kind: EventBranchStart, Label: "extra", TotalSteps: 3}, at(0))
	if len(state.Rows) != 1 || state.Rows[0].Label != "extra" {
		t.Fatalf("rows: %+v", state.Rows)
	}
}
