// Package transcript normalises raw engine logs into the canonical
// scene-tagged JSONL transcript and parses it back for measurement.
package transcript

import (
	"strings"

	"edusim/internal/engine"
	"edusim/internal/scene"
)

// Entry is one canonical transcript row. Key order is fixed by the schema.
type Entry struct {
	Step         int      `json:"Step"`
	Scene        string   `json:"Scene"`
	Participants []string `json:"Participants"`
	Event        string   `json:"Event"`
}

const eventSeparator = "---"

// Normalize converts a raw log into dense transcript entries for steps 1..N,
// where N is the total round count covered by the scene windows. Steps with
// no raw record (for example when the language model is disabled) get an
// empty event but keep their scene and participant scaffolding.
func Normalize(raw *engine.RawLog, windows []scene.Window) []Entry {
	total := 0
	if len(windows) > 0 {
		total = windows[len(windows)-1].End
	}
	records := raw.Records()
	entries := make([]Entry, 0, total)
	for step := 1; step <= total; step++ {
		event := ""
		if step-1 < len(records) {
			event = eventText(records[step-1].Summary)
		}
		window, ok := scene.WindowFor(windows, step)
		entry := Entry{Step: step, Event: event, Participants: []string{}}
		if ok {
			entry.Scene = window.SceneName
			entry.Participants = append([]string{}, window.Participants...)
		}
		entries = append(entries, entry)
	}
	return entries
}

// eventText extracts the canonical event from a raw summary: everything after
// the first "---" separator, trimmed. Summaries without the separator carry
// no event.
func eventText(summary string) string {
	_, after, found := strings.Cut(summary, eventSeparator)
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// Speaker extracts the speaker name from an event string. The text may carry
// an "Event:" prefix; the speaker is the first whitespace-separated token
// before the first colon. An empty event has no speaker.
func Speaker(event string) string {
	text := strings.TrimSpace(event)
	text = strings.TrimSpace(strings.TrimPrefix(text, "Event:"))
	if text == "" {
		return ""
	}
	head, _, found := strings.Cut(text, ":")
	if !found {
		return ""
	}
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
