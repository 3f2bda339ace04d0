package survey

import (
	"fmt"
	"strings"

	"edusim/internal/results"
)

// Responder converts an action spec into an option string. It may be an LLM
// agent proxy or a deterministic picker; the surveyor does not care.
type Responder func(player, actionSpec string) (string, error)

// ActionSpec composes the administration string for one question:
// kind=MULTIPLE_CHOICE;;call_to_action=<preprompt + statement>;;options=a, b, c
func ActionSpec(in *Instrument, q Question) string {
	preprompt := q.Preprompt
	if preprompt == "" {
		preprompt = in.Preprompt
	}
	return fmt.Sprintf("kind=MULTIPLE_CHOICE;;call_to_action=%s%s;;options=%s",
		preprompt, q.Statement, strings.Join(q.Choices, ", "))
}

// aggregateDimension tags aggregate rows in the results table.
const aggregateDimension = "aggregate"

// Administer runs every questionnaire for every player, strictly sequential
// per (player, questionnaire, question). A responder error fails the run; a
// non-matching answer is recorded unanswered and skipped in aggregation.
func Administer(players []string, instruments []*Instrument, responder Responder) (map[string]*results.Table, error) {
	tables := map[string]*results.Table{}
	for _, in := range instruments {
		table := results.NewTable("player", "questionnaire", "question", "dimension", "raw_answer", "value")
		for _, player := range players {
			var answers []Answer
			for _, q := range in.Questions() {
				raw, err := responder(player, ActionSpec(in, q))
				if err != nil {
					return nil, fmt.Errorf("responder for %s on %q: %w", player, in.Name(), err)
				}
				answer := in.ProcessAnswer(player, raw, q)
				answers = append(answers, answer)
				var value results.Value
				if answer.Answered() {
					value = *answer.Value
				}
				if err := table.Append(player, in.Name(), q.Statement, q.Dimension, raw, value); err != nil {
					return nil, err
				}
			}
			stats := in.AggregateResults(answers)
			for _, name := range in.StatNames() {
				if err := table.Append(player, in.Name(), name, aggregateDimension, "", stats[name]); err != nil {
					return nil, err
				}
			}
		}
		tables[in.Name()] = table
	}
	return tables, nil
}

// WriteTables persists one CSV/JSON pair per questionnaire into dir, using
// the lowercased instrument name as the file prefix.
func WriteTables(dir string, tables map[string]*results.Table) error {
	for name, table := range tables {
		if err := results.WriteBoth(dir, strings.ToLower(name), table); err != nil {
			return fmt.Errorf("write %s results: %w", name, err)
		}
	}
	return nil
}
