// Package scenario loads data-driven scenario definitions and turns them
// into pipeline branches: one baseline condition plus one condition per
// declared intervention.
package scenario

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"edusim/internal/agent"
	"edusim/internal/pipeline"
	"edusim/internal/rubric"
	"edusim/internal/scene"
	"edusim/internal/survey"
)

// Phase selects which branches of a scenario to run.
type Phase string

const (
	// PhaseAll runs the baseline and every intervention.
	PhaseAll Phase = ""
	// PhaseBaseline runs only the baseline condition.
	PhaseBaseline Phase = "baseline"
	// PhaseInterventions runs only the intervention conditions.
	PhaseInterventions Phase = "interventions"
)

// BaselineLabel names the no-intervention condition directory.
const BaselineLabel = "baseline"

// AgentDef declares one roster member.
type AgentDef struct {
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Traits   []string `yaml:"traits"`
	Goal     string   `yaml:"goal"`
	Memories []string `yaml:"memories"`
}

// Definition is a complete scenario data file.
type Definition struct {
	Name           string                    `yaml:"name"`
	Description    string                    `yaml:"description"`
	Agents         []AgentDef                `yaml:"agents"`
	SharedMemories []string                  `yaml:"shared_memories"`
	SceneTypes     map[string]scene.TypeSpec `yaml:"scene_types"`
	PreScenes      []scene.Spec              `yaml:"pre_scenes"`
	PostScenes     []scene.Spec              `yaml:"post_scenes"`
	Interventions  []scene.InterventionSpec  `yaml:"interventions"`
	Questionnaires []string                  `yaml:"questionnaires"`
	Rubrics        []string                  `yaml:"rubrics"`
	RubricTarget   string                    `yaml:"rubric_target"`
	SurveyPlayers  []string                  `yaml:"survey_players"`
}

// Parse decodes a scenario document. Unknown fields and multiple YAML
// documents are rejected.
func Parse(data []byte) (Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse scenario: %w", err)
	}
	// Probe with a yaml.Node so KnownFields cannot mask the real failure.
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		return Definition{}, fmt.Errorf("parse scenario: multiple YAML documents are not supported")
	}
	return def, nil
}

// Validate checks internal consistency: roster references, scene types,
// round counts, intervention labels, and catalogue membership of the
// declared questionnaires and rubrics.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if err := scene.ValidateLabel(d.Name); err != nil {
		return fmt.Errorf("scenario name: %w", err)
	}
	if len(d.Agents) == 0 {
		return fmt.Errorf("scenario %s: at least one agent is required", d.Name)
	}
	roster := make(map[string]bool, len(d.Agents))
	for i, def := range d.Agents {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("scenario %s: agents[%d] name is required", d.Name, i)
		}
		if roster[def.Name] {
			return fmt.Errorf("scenario %s: duplicate agent %q", d.Name, def.Name)
		}
		roster[def.Name] = true
	}

	if len(d.PreScenes) == 0 {
		return fmt.Errorf("scenario %s: pre_scenes are required", d.Name)
	}
	if err := scene.Validate(d.PreScenes, d.SceneTypes, roster); err != nil {
		return fmt.Errorf("scenario %s: pre_scenes: %w", d.Name, err)
	}
	if err := scene.Validate(d.PostScenes, d.SceneTypes, roster); err != nil {
		return fmt.Errorf("scenario %s: post_scenes: %w", d.Name, err)
	}

	seenLabels := map[string]bool{BaselineLabel: true}
	for i, intervention := range d.Interventions {
		label := intervention.OutputLabel
		if label == "" {
			label = intervention.Name
		}
		if err := scene.ValidateLabel(label); err != nil {
			return fmt.Errorf("scenario %s: interventions[%d]: %w", d.Name, i, err)
		}
		if seenLabels[label] {
			return fmt.Errorf("scenario %s: duplicate intervention label %q", d.Name, label)
		}
		seenLabels[label] = true
		if len(intervention.Scenes) == 0 {
			return fmt.Errorf("scenario %s: interventions[%d] (%s): scenes are required", d.Name, i, intervention.Name)
		}
		if err := scene.Validate(intervention.Scenes, d.SceneTypes, roster); err != nil {
			return fmt.Errorf("scenario %s: interventions[%d] (%s): %w", d.Name, i, intervention.Name, err)
		}
	}

	if _, err := survey.Lookup(d.Questionnaires); err != nil {
		return fmt.Errorf("scenario %s: %w", d.Name, err)
	}
	if _, err := rubric.Lookup(d.Rubrics, d.RubricTarget); err != nil {
		return fmt.Errorf("scenario %s: %w", d.Name, err)
	}
	for _, player := range d.SurveyPlayers {
		if !roster[player] {
			return fmt.Errorf("scenario %s: survey player %q is not in the roster", d.Name, player)
		}
	}
	return nil
}

// Branches expands the definition into pipeline branches for a phase.
func (d *Definition) Branches(phase Phase) ([]pipeline.Branch, error) {
	var branches []pipeline.Branch
	if phase == PhaseAll || phase == PhaseBaseline {
		branches = append(branches, pipeline.Branch{
			Label: BaselineLabel,
			Pre:   d.PreScenes,
			Post:  d.PostScenes,
		})
	}
	if phase == PhaseAll || phase == PhaseInterventions {
		for _, intervention := range d.Interventions {
			label := intervention.OutputLabel
			if label == "" {
				label = intervention.Name
			}
			branches = append(branches, pipeline.Branch{
				Label:        label,
				Pre:          d.PreScenes,
				Intervention: intervention.Scenes,
				Post:         d.PostScenes,
			})
		}
	}
	if phase != PhaseAll && phase != PhaseBaseline && phase != PhaseInterventions {
		return nil, fmt.Errorf("unknown phase %q", phase)
	}
	return branches, nil
}

// Populate creates the roster on a fresh factory, one agent per definition.
func (d *Definition) Populate(ctx context.Context, factory *agent.Factory) error {
	for _, def := range d.Agents {
		var err error
		switch agent.Role(def.Role) {
		case agent.RoleStudent:
			_, err = factory.CreateStudent(ctx, def.Name, def.Traits, def.Goal, def.Memories)
		case agent.RoleTeacher:
			_, err = factory.CreateTeacher(ctx, def.Name, def.Traits, def.Goal, def.Memories)
		case agent.RoleParent:
			_, err = factory.CreateParent(ctx, def.Name, def.Traits, def.Goal, def.Memories)
		default:
			_, err = factory.CreateCustomAgent(ctx, def.Name, def.Role, def.Traits, def.Goal, def.Memories)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Load reads, parses, and validates one scenario file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read scenario: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadDir loads every *.yaml scenario under a directory, keyed by name.
func LoadDir(dir string) (map[string]Definition, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defs := make(map[string]Definition, len(matches))
	for _, path := range matches {
		def, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if _, exists := defs[def.Name]; exists {
			return nil, fmt.Errorf("%s: duplicate scenario name %q", filepath.Base(path), def.Name)
		}
		defs[def.Name] = def
	}
	return defs, nil
}

// Names returns sorted scenario names.
func Names(defs map[string]Definition) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
