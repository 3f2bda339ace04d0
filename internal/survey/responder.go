package survey

import (
	"context"
	"fmt"
	"strings"

	"edusim/internal/agent"
	"edusim/internal/memory"
	"edusim/internal/model"
)

// DefaultPreferredOptions is the label preference order of the canonical
// fallback responder.
var DefaultPreferredOptions = []string{"Neutral", "Agree", "Somewhat", "A little bit"}

// ParseOptions extracts the option labels from an action spec string.
func ParseOptions(actionSpec string) []string {
	for _, segment := range strings.Split(actionSpec, ";;") {
		if rest, ok := strings.CutPrefix(segment, "options="); ok {
			parts := strings.Split(rest, ", ")
			options := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					options = append(options, trimmed)
				}
			}
			return options
		}
	}
	return nil
}

// MedianResponder returns the deterministic fallback responder: it prefers
// labels from the preference list, else picks the median option.
func MedianResponder(prefer []string) Responder {
	if prefer == nil {
		prefer = DefaultPreferredOptions
	}
	return func(player, actionSpec string) (string, error) {
		options := ParseOptions(actionSpec)
		if len(options) == 0 {
			return "", fmt.Errorf("action spec has no options: %q", actionSpec)
		}
		for _, wanted := range prefer {
			for _, option := range options {
				if option == wanted {
					return option, nil
				}
			}
		}
		return options[len(options)/2], nil
	}
}

const responderMemories = 5

// AgentResponder answers through the language model in the voice of one
// agent, grounding the answer in retrieved memories. Replies that match no
// option flow back as-is and score unanswered.
func AgentResponder(m model.Model, bank *memory.Bank, roster map[string]*agent.Agent) Responder {
	return func(player, actionSpec string) (string, error) {
		persona, ok := roster[player]
		if !ok {
			return "", fmt.Errorf("player %q is not in the roster", player)
		}
		options := ParseOptions(actionSpec)
		callToAction := callToActionOf(actionSpec)

		var b strings.Builder
		b.WriteString("You are ")
		b.WriteString(persona.Describe())
		b.WriteString(".\n")
		memories, err := bank.Retrieve(context.Background(), player, callToAction, responderMemories)
		if err != nil {
			return "", fmt.Errorf("retrieve memories: %w", err)
		}
		for _, mem := range memories {
			b.WriteString("You remember: ")
			b.WriteString(mem.Content)
			b.WriteString("\n")
		}
		b.WriteString(callToAction)
		b.WriteString("\nAnswer with exactly one of: ")
		b.WriteString(strings.Join(options, ", "))

		reply, err := m.SampleText(context.Background(), b.String())
		if err != nil {
			return "", fmt.Errorf("sample answer: %w", err)
		}
		reply = strings.TrimSpace(reply)
		for _, option := range options {
			if strings.EqualFold(reply, option) {
				return option, nil
			}
		}
		return reply, nil
	}
}

func callToActionOf(actionSpec string) string {
	for _, segment := range strings.Split(actionSpec, ";;") {
		if rest, ok := strings.CutPrefix(segment, "call_to_action="); ok {
			return rest
		}
	}
	return actionSpec
}
