package survey

import (
	"math"
	"testing"
)

func fourPointQuestion(ascending bool) Question {
	return Question{
		Statement:      "I stayed calm during the argument.",
		Dimension:      "Total",
		Choices:        []string{"Strongly Disagree", "Disagree", "Agree", "Strongly Agree"},
		AscendingScale: ascending,
	}
}

func plain(name string, dims ...string) *Instrument {
	return &Instrument{InstrumentName: name, Dimensions: dims}
}

func TestReverseScoring(t *testing.T) {
	in := plain("TEST", "Total")

	descending := in.ProcessAnswer("Leo", "Agree", fourPointQuestion(false))
	if !descending.Answered() || *descending.Value != 1 {
		t.Fatalf("descending Agree should score 1, got %v", descending.Value)
	}

	ascending := in.ProcessAnswer("Leo", "Agree", fourPointQuestion(true))
	if !ascending.Answered() || *ascending.Value != 2 {
		t.Fatalf("ascending Agree should score 2, got %v", ascending.Value)
	}
}

func TestProcessAnswerUnmatched(t *testing.T) {
	in := plain("TEST", "Total")
	got := in.ProcessAnswer("Leo", "maybe", fourPointQuestion(true))
	if got.Answered() {
		t.Fatalf("unmatched answer must be unanswered, got %v", *got.Value)
	}
	// Matching is exact, not case-insensitive.
	got = in.ProcessAnswer("Leo", "agree", fourPointQuestion(true))
	if got.Answered() {
		t.Fatalf("case-different answer must be unanswered")
	}
}

func TestValueOffset(t *testing.T) {
	in := plain("TEST", "Total")
	in.ValueOffset = 1
	got := in.ProcessAnswer("Leo", "Strongly Disagree", fourPointQuestion(true))
	if *got.Value != 1 {
		t.Fatalf("1-based scale should score 1, got %v", *got.Value)
	}
}

func value(v float64) *float64 { return &v }

func TestAggregateSumsAndMeans(t *testing.T) {
	in := plain("TEST", "A", "B")
	answers := []Answer{
		{Dimension: "A", Value: value(1)},
		{Dimension: "A", Value: value(3)},
		{Dimension: "B", Value: value(2)},
		{Dimension: "B"}, // unanswered, skipped
	}
	stats := in.AggregateResults(answers)
	if stats["TEST_A_Sum"] != 4 || stats["TEST_A_Mean"] != 2 {
		t.Fatalf("dimension A: sum=%v mean=%v", stats["TEST_A_Sum"], stats["TEST_A_Mean"])
	}
	if stats["TEST_B_Sum"] != 2 || stats["TEST_B_Mean"] != 2 {
		t.Fatalf("dimension B: sum=%v mean=%v", stats["TEST_B_Sum"], stats["TEST_B_Mean"])
	}
	if stats["TEST_Total_Sum"] != 6 || stats["TEST_Total_Mean"] != 2 {
		t.Fatalf("total: sum=%v mean=%v", stats["TEST_Total_Sum"], stats["TEST_Total_Mean"])
	}
}

func TestAggregateEmptyDimensionIsNaN(t *testing.T) {
	in := plain("TEST", "A", "B")
	answers := []Answer{{Dimension: "A", Value: value(2)}}
	stats := in.AggregateResults(answers)
	if !math.IsNaN(stats["TEST_B_Sum"]) || !math.IsNaN(stats["TEST_B_Mean"]) {
		t.Fatalf("empty dimension should be NaN, got %v", stats["TEST_B_Sum"])
	}
	if math.IsNaN(stats["TEST_Total_Mean"]) {
		t.Fatalf("total should not be NaN when any value exists")
	}
}

func TestAggregateAllUnansweredIsNaN(t *testing.T) {
	in := plain("TEST", "A")
	stats := in.AggregateResults([]Answer{{Dimension: "A"}, {Dimension: "A"}})
	for name, stat := range stats {
		if !math.IsNaN(stat) {
			t.Fatalf("%s should be NaN, got %v", name, stat)
		}
	}
}

func TestDASSScaling(t *testing.T) {
	in := NewDASS21()
	depression := in.Items[2]
	answer := in.ProcessAnswer("Leo", "Applied to me very much", depression)
	if *answer.Value != 3 {
		t.Fatalf("item value should stay unscaled, got %v", *answer.Value)
	}
	stats := in.AggregateResults([]Answer{*scoreOn(in, depression, "Applied to me very much")})
	if stats["DASS_Depression_Sum"] != 6 {
		t.Fatalf("DASS sums double at aggregation, got %v", stats["DASS_Depression_Sum"])
	}
}

func scoreOn(in *Instrument, q Question, text string) *Answer {
	a := in.ProcessAnswer("Leo", text, q)
	return &a
}

func TestCatalogIntegrity(t *testing.T) {
	catalog := Registry()
	wantCounts := map[string]int{"BFNE": 12, "DASS": 21, "RSES": 10, "GAD7": 7, "AES": 8, "CTS": 6}
	for name, want := range wantCounts {
		in, ok := catalog[name]
		if !ok {
			t.Fatalf("instrument %s missing from catalogue", name)
		}
		if len(in.Items) != want {
			t.Fatalf("%s has %d items, want %d", name, len(in.Items), want)
		}
		if in.Type() != QuestionnaireType {
			t.Fatalf("%s type = %q", name, in.Type())
		}
		dims := map[string]bool{}
		for _, d := range in.Dimensions {
			dims[d] = true
		}
		for i, q := range in.Items {
			if len(q.Choices) < 2 {
				t.Fatalf("%s item %d has fewer than 2 choices", name, i+1)
			}
			if !dims[q.Dimension] {
				t.Fatalf("%s item %d uses undeclared dimension %q", name, i+1, q.Dimension)
			}
		}
	}

	if _, err := Lookup([]string{"BFNE", "CTS"}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := Lookup([]string{"NOPE"}); err == nil {
		t.Fatalf("unknown instrument should error")
	}
}

func TestBFNEReverseItemCount(t *testing.T) {
	in := NewBFNE()
	reversed := 0
	for _, q := range in.Items {
		if !q.AscendingScale {
			reversed++
		}
	}
	if reversed != 4 {
		t.Fatalf("BFNE should reverse-score 4 items, got %d", reversed)
	}
}
