package engine

import (
	"context"
	"fmt"
	"strings"

	"edusim/internal/agent"
	"edusim/internal/memory"
	"edusim/internal/model"
	"edusim/internal/scene"
)

// endSentinel is the marker the call-to-action asks the model to append when
// it considers a scene concluded. The loop bound stays authoritative; the
// sentinel is only stripped from logged utterances.
const endSentinel = "[END]"

const retrievedMemories = 5

// Dialogic selects the next speaker per round and produces utterances
// through the language model, appending one raw record per step.
type Dialogic struct {
	Model   model.Model
	Bank    *memory.Bank
	Roster  map[string]*agent.Agent
	Scenes  []scene.Spec
	Types   map[string]scene.TypeSpec
	Windows []scene.Window

	// Log receives one raw record per step.
	Log *RawLog

	// Silent marks the disabled-backend mode: no model calls, no records.
	Silent bool

	recent []string
}

// Name identifies the game master in loop errors.
func (d *Dialogic) Name() string {
	return "dialogic"
}

// Step produces one utterance for the step's scene and speaker.
func (d *Dialogic) Step(ctx context.Context, step int) error {
	if d.Silent {
		return nil
	}
	log := d.Log
	window, ok := scene.WindowFor(d.Windows, step)
	if !ok {
		return fmt.Errorf("step %d is outside every scene window", step)
	}
	speaker := window.Participants[(step-window.Start)%len(window.Participants)]
	persona, ok := d.Roster[speaker]
	if !ok {
		return fmt.Errorf("speaker %q is not in the roster", speaker)
	}
	spec := d.Types[window.SceneName]

	prompt, err := d.buildPrompt(ctx, persona, spec, window)
	if err != nil {
		return err
	}
	utterance, err := d.Model.SampleText(ctx, prompt)
	if err != nil {
		return fmt.Errorf("sample utterance for %s: %w", speaker, err)
	}
	utterance = strings.TrimSpace(strings.ReplaceAll(utterance, endSentinel, ""))
	if utterance == "" {
		if log != nil {
			log.Append(RawRecord{Summary: fmt.Sprintf("%s round %d", window.SceneName, step)})
		}
		return nil
	}
	event := fmt.Sprintf("%s: %s", speaker, utterance)
	d.recent = append(d.recent, event)
	if log != nil {
		log.Append(RawRecord{Summary: fmt.Sprintf("%s round %d --- %s", window.SceneName, step, event)})
	}
	return nil
}

func (d *Dialogic) buildPrompt(ctx context.Context, persona *agent.Agent, spec scene.TypeSpec, window scene.Window) (string, error) {
	var b strings.Builder
	b.WriteString("You are playing ")
	b.WriteString(persona.Describe())
	b.WriteString(".\n")
	query := spec.ActionSpec
	if query == "" {
		query = window.SceneName
	}
	memories, err := d.Bank.Retrieve(ctx, persona.Name, query, retrievedMemories)
	if err != nil {
		return "", fmt.Errorf("retrieve memories for %s: %w", persona.Name, err)
	}
	if len(memories) > 0 {
		b.WriteString("You remember:\n")
		for _, m := range memories {
			b.WriteString("- ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	if len(d.recent) > 0 {
		b.WriteString("The conversation so far:\n")
		start := 0
		if len(d.recent) > 10 {
			start = len(d.recent) - 10
		}
		for _, line := range d.recent[start:] {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if spec.ActionSpec != "" {
		b.WriteString(spec.ActionSpec)
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Respond with %s's next line only. Append %s if the scene should conclude.", persona.Name, endSentinel))
	return b.String(), nil
}
