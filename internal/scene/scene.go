// Package scene defines scene type specs, scene specs, intervention specs,
// and the step-window arithmetic used to tag transcript rows.
package scene

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TypeSpec describes a reusable scene type: which game master mediates it,
// the default per-agent premises, and the call-to-action handed to the model.
type TypeSpec struct {
	Name                 string              `yaml:"name"`
	GameMasterName       string              `yaml:"game_master_name"`
	DefaultPremise       map[string][]string `yaml:"default_premise"`
	ActionSpec           string              `yaml:"action_spec"`
	PossibleParticipants []string            `yaml:"possible_participants"`
}

// Spec is a single scheduled scene: a scene type, the participants for this
// run, the declared round count, and optional start time and premise override.
type Spec struct {
	SceneType    string              `yaml:"scene_type"`
	Participants []string            `yaml:"participants"`
	NumRounds    int                 `yaml:"num_rounds"`
	StartTime    *time.Time          `yaml:"start_time"`
	Premise      map[string][]string `yaml:"premise"`
}

// PremiseFor returns the premise lines for a participant: the per-scene
// override when present, else the scene type default. Agents outside the
// participant list receive nothing.
func (s Spec) PremiseFor(spec TypeSpec, participant string) []string {
	if lines, ok := s.Premise[participant]; ok {
		return lines
	}
	return spec.DefaultPremise[participant]
}

// InterventionSpec names an ordered scene sequence inserted between the pre
// and post phases of a branch. OutputLabel becomes part of the branch
// directory name and must be path-safe.
type InterventionSpec struct {
	Name        string `yaml:"name"`
	Scenes      []Spec `yaml:"scenes"`
	OutputLabel string `yaml:"output_label"`
}

var labelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateLabel checks that an output label is safe to embed in a path.
func ValidateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("output label %q must match %s", label, labelPattern)
	}
	return nil
}

// Validate checks a scene sequence against a roster and scene type catalogue.
func Validate(scenes []Spec, types map[string]TypeSpec, roster map[string]bool) error {
	for i, sc := range scenes {
		if sc.NumRounds < 1 {
			return fmt.Errorf("scene[%d]: num_rounds must be at least 1, got %d", i, sc.NumRounds)
		}
		spec, ok := types[sc.SceneType]
		if !ok {
			return fmt.Errorf("scene[%d]: unknown scene type %q", i, sc.SceneType)
		}
		if len(sc.Participants) == 0 {
			return fmt.Errorf("scene[%d] (%s): participants are required", i, sc.SceneType)
		}
		for _, name := range sc.Participants {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("scene[%d] (%s): empty participant name", i, sc.SceneType)
			}
			if !roster[name] {
				return fmt.Errorf("scene[%d] (%s): participant %q is not in the roster", i, sc.SceneType, name)
			}
			if len(spec.PossibleParticipants) > 0 && !contains(spec.PossibleParticipants, name) {
				return fmt.Errorf("scene[%d] (%s): %q is not a possible participant", i, sc.SceneType, name)
			}
		}
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// TotalRounds sums the declared round counts of a scene sequence.
func TotalRounds(scenes []Spec) int {
	total := 0
	for _, sc := range scenes {
		total += sc.NumRounds
	}
	return total
}
