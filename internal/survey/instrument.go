package survey

import (
	"fmt"
	"math"
	"sort"
)

// Instrument is a fixed-content multiple-choice questionnaire. Scoring
// policy knobs are per-instrument and immutable: ValueOffset shifts the
// base index (1-based scales), AggregateScale multiplies aggregate sums and
// means (for example DASS-21 doubles to full-DASS equivalents).
type Instrument struct {
	InstrumentName       string
	Description          string
	ObservationPreprompt string
	Preprompt            string
	Dimensions           []string
	Items                []Question

	ValueOffset    float64
	AggregateScale float64
}

// QuestionnaireType is the only supported administration mode.
const QuestionnaireType = "multiple_choice"

// Name returns the instrument name used as the results file prefix.
func (in *Instrument) Name() string { return in.InstrumentName }

// Type returns the questionnaire type tag.
func (in *Instrument) Type() string { return QuestionnaireType }

// Questions returns the ordered items.
func (in *Instrument) Questions() []Question { return in.Items }

// ProcessAnswer scores one answer by exact choice lookup. Unmatched text
// yields an unanswered value; multi-option answers are not supported.
func (in *Instrument) ProcessAnswer(player, answerText string, q Question) Answer {
	answer := Answer{
		Player:        player,
		Questionnaire: in.InstrumentName,
		Question:      q.Statement,
		Dimension:     q.Dimension,
		Raw:           answerText,
	}
	for i, choice := range q.Choices {
		if choice == answerText {
			base := float64(i)
			if !q.AscendingScale {
				base = float64(len(q.Choices) - 1 - i)
			}
			value := base + in.ValueOffset
			answer.Value = &value
			break
		}
	}
	return answer
}

// AggregateResults computes per-dimension sums and means plus an overall
// total, skipping unanswered items. A dimension with no valid values
// reports NaN.
func (in *Instrument) AggregateResults(answers []Answer) map[string]float64 {
	scale := in.AggregateScale
	if scale == 0 {
		scale = 1
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	var totalSum float64
	totalCount := 0
	for _, a := range answers {
		if !a.Answered() {
			continue
		}
		sums[a.Dimension] += *a.Value
		counts[a.Dimension]++
		totalSum += *a.Value
		totalCount++
	}

	stats := map[string]float64{}
	for _, dim := range in.Dimensions {
		sumKey := fmt.Sprintf("%s_%s_Sum", in.InstrumentName, dim)
		meanKey := fmt.Sprintf("%s_%s_Mean", in.InstrumentName, dim)
		if counts[dim] == 0 {
			stats[sumKey] = math.NaN()
			stats[meanKey] = math.NaN()
			continue
		}
		stats[sumKey] = scale * sums[dim]
		stats[meanKey] = scale * sums[dim] / float64(counts[dim])
	}
	totalSumKey := in.InstrumentName + "_Total_Sum"
	totalMeanKey := in.InstrumentName + "_Total_Mean"
	if totalCount == 0 {
		stats[totalSumKey] = math.NaN()
		stats[totalMeanKey] = math.NaN()
	} else {
		stats[totalSumKey] = scale * totalSum
		stats[totalMeanKey] = scale * totalSum / float64(totalCount)
	}
	return stats
}

// StatNames returns the aggregate statistic names in a stable order.
func (in *Instrument) StatNames() []string {
	names := make([]string, 0, 2*len(in.Dimensions)+2)
	for _, dim := range in.Dimensions {
		names = append(names,
			fmt.Sprintf("%s_%s_Sum", in.InstrumentName, dim),
			fmt.Sprintf("%s_%s_Mean", in.InstrumentName, dim))
	}
	names = append(names, in.InstrumentName+"_Total_Sum", in.InstrumentName+"_Total_Mean")
	sort.Strings(names)
	return names
}

// validate checks instrument integrity at catalogue construction time.
func (in *Instrument) validate() error {
	dims := map[string]bool{}
	for _, d := range in.Dimensions {
		dims[d] = true
	}
	for i, q := range in.Items {
		if len(q.Choices) < 2 {
			return fmt.Errorf("%s item %d: needs at least 2 choices", in.InstrumentName, i+1)
		}
		if !dims[q.Dimension] {
			return fmt.Errorf("%s item %d: dimension %q not declared", in.InstrumentName, i+1, q.Dimension)
		}
	}
	return nil
}
