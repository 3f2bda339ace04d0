// Package rubric scans transcripts against keyword rubrics and emits scored
// behavioral codings.
package rubric

import (
	"fmt"
	"strings"
)

// Criteria holds the matching inputs of one item.
type Criteria struct {
	Keywords []string
}

// Scoring maps the selected option to a score and a severity.
type Scoring struct {
	ScoreMap    map[string]int
	SeverityMap map[string]int
}

// Item is a keyword-based behavioral detector with a fixed option-to-score
// mapping. The first declared option is the canonical positive label.
type Item struct {
	ID       string
	Label    string
	Criteria Criteria
	Options  []string
	Scoring  Scoring
}

// Rubric groups items. When TargetAgent is set, only transcript rows whose
// extracted speaker equals it are considered.
type Rubric struct {
	Name           string
	Description    string
	TargetAgent    string
	Items          []Item
	PromptTemplate string
}

// Match is a successful keyword hit on one event.
type Match struct {
	Option   string
	Score    int
	Severity int
	Evidence string
}

// MatchEvent applies one item to an event. Keywords are case-insensitive
// substrings tried in declared order; the first hit wins and its declared
// spelling becomes the evidence.
func (it Item) MatchEvent(event string) (Match, bool) {
	text := strings.ToLower(event)
	if text == "" {
		return Match{}, false
	}
	for _, keyword := range it.Criteria.Keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			option := ""
			if len(it.Options) > 0 {
				option = it.Options[0]
			}
			severity := 1
			if s, ok := it.Scoring.SeverityMap[option]; ok {
				severity = s
			}
			score := 0
			if s, ok := it.Scoring.ScoreMap[option]; ok {
				score = s
			}
			return Match{Option: option, Score: score, Severity: severity, Evidence: keyword}, true
		}
	}
	return Match{}, false
}

// Validate checks that every option of every item appears in its score map.
func (r Rubric) Validate() error {
	for _, item := range r.Items {
		for _, option := range item.Options {
			if _, ok := item.Scoring.ScoreMap[option]; !ok {
				return fmt.Errorf("rubric %s item %s: option %q missing from score_map", r.Name, item.ID, option)
			}
		}
	}
	return nil
}
