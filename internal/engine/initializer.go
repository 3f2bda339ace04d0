package engine

import (
	"context"
	"fmt"

	"edusim/internal/memory"
	"edusim/internal/scene"
)

// Initializer seeds shared memories and per-participant scene premises into
// the memory bank before any scene begins. It appends nothing to the raw log.
type Initializer struct {
	Bank           *memory.Bank
	SharedMemories []string
	Roster         []string
	Scenes         []scene.Spec
	Types          map[string]scene.TypeSpec

	seeded bool
}

// Name identifies the game master in loop errors.
func (i *Initializer) Name() string {
	return "initializer"
}

// Step seeds memories on the first step only.
func (i *Initializer) Step(ctx context.Context, step int) error {
	if i.seeded {
		return nil
	}
	i.seeded = true
	for _, shared := range i.SharedMemories {
		for _, name := range i.Roster {
			if err := i.Bank.Add(ctx, name, shared); err != nil {
				return fmt.Errorf("seed shared memory: %w", err)
			}
		}
	}
	for _, sc := range i.Scenes {
		spec, ok := i.Types[sc.SceneType]
		if !ok {
			return fmt.Errorf("unknown scene type %q", sc.SceneType)
		}
		for _, participant := range sc.Participants {
			for _, line := range sc.PremiseFor(spec, participant) {
				if err := i.Bank.Add(ctx, participant, line); err != nil {
					return fmt.Errorf("seed premise for %s: %w", participant, err)
				}
			}
		}
	}
	return nil
}
