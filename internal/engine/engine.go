// Package engine drives the game-master turn loop over a caller-owned raw
// log buffer. The loop bound is always the declared round total; an [END]
// sentinel in an utterance never shortens it.
package engine

import (
	"context"
	"fmt"
)

// RawRecord is one raw engine log entry. The canonical event text follows
// the first "---" separator inside Summary.
type RawRecord struct {
	Summary string
}

// RawLog is the mutable buffer game masters append to during a run. It is
// owned by the caller and handed to the transcript normaliser afterwards.
type RawLog struct {
	records []RawRecord
}

// Append adds one record.
func (l *RawLog) Append(record RawRecord) {
	l.records = append(l.records, record)
}

// Records returns the appended records in order.
func (l *RawLog) Records() []RawRecord {
	return l.records
}

// Len returns the number of records.
func (l *RawLog) Len() int {
	return len(l.records)
}

// GameMaster mediates one turn of the simulation per step.
type GameMaster interface {
	Name() string
	// Step runs the game master for the given 1-based step.
	Step(ctx context.Context, step int) error
}

// StepObserver is notified after each completed step.
type StepObserver func(step, maxSteps int)

// RunLoop invokes the game masters in order for each step 1..maxSteps.
// A step error aborts the loop and propagates to the caller.
func RunLoop(ctx context.Context, gms []GameMaster, maxSteps int, observer StepObserver) error {
	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		for _, gm := range gms {
			if err := gm.Step(ctx, step); err != nil {
				return fmt.Errorf("step %d (%s): %w", step, gm.Name(), err)
			}
		}
		if observer != nil {
			observer(step, maxSteps)
		}
	}
	return nil
}
