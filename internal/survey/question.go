// Package survey holds the questionnaire catalogue and the surveyor that
// administers instruments to agents through a responder callback.
package survey

// Question is one Likert-style item. The semantic value of an answered
// choice is its zero-based index when AscendingScale is true, else the
// reverse-scored index.
type Question struct {
	Statement      string
	Dimension      string
	Preprompt      string
	Choices        []string
	AscendingScale bool
}

// Answer is the scored outcome of administering one question to one player.
// Value is nil when the responder's text matched no choice.
type Answer struct {
	Player        string
	Questionnaire string
	Question      string
	Dimension     string
	Raw           string
	Value         *float64
}

// Answered reports whether the answer carries a valid value.
func (a Answer) Answered() bool {
	return a.Value != nil
}

// Likert choice sets shared across instruments.
var (
	agreement5 = []string{"Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree"}

	characteristic5 = []string{
		"Not at all characteristic of me",
		"Slightly characteristic of me",
		"Moderately characteristic of me",
		"Very characteristic of me",
		"Extremely characteristic of me",
	}

	applied4 = []string{
		"Did not apply to me at all",
		"Applied to me to some degree",
		"Applied to me a considerable degree",
		"Applied to me very much",
	}

	agreement4 = []string{"Strongly Disagree", "Disagree", "Agree", "Strongly Agree"}

	frequency4 = []string{"Not at all", "Several days", "More than half the days", "Nearly every day"}
)
