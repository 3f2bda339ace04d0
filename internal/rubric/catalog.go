package rubric

// The catalogue is fixed-content, like the questionnaire registry: a new
// rubric means a new constructor.

const (
	optPresent  = "present"
	promptStub  = "Rate the following transcript excerpt for %s. Excerpt:\n%s"
	scoreSingle = 1
)

func detector(id, label string, severity int, keywords ...string) Item {
	return Item{
		ID:       id,
		Label:    label,
		Criteria: Criteria{Keywords: keywords},
		Options:  []string{optPresent, "absent"},
		Scoring: Scoring{
			ScoreMap:    map[string]int{optPresent: scoreSingle, "absent": 0},
			SeverityMap: map[string]int{optPresent: severity},
		},
	}
}

// NewAggression builds the peer-aggression rubric.
func NewAggression() Rubric {
	return Rubric{
		Name:        "aggression",
		Description: "Verbal and physical peer aggression markers.",
		Items: []Item{
			detector("name_calling", "Name-calling or mockery", 2, "stupid", "loser", "idiot", "laughed at", "mock"),
			detector("threats", "Threats of harm", 3, "threaten", "or else", "going to hurt", "watch your back"),
			detector("physical", "Physical aggression", 3, "push", "shove", "hit ", "grabbed", "kicked"),
			detector("exclusion", "Social exclusion", 2, "can't sit with", "not invited", "nobody wants you", "go away"),
		},
		PromptTemplate: promptStub,
	}
}

// NewDishonesty builds the academic dishonesty rubric.
func NewDishonesty() Rubric {
	return Rubric{
		Name:        "dishonesty",
		Description: "Cheating and academic dishonesty markers.",
		Items: []Item{
			detector("cheating", "Cheating or intent to cheat", 2, "cheat", "copy your answers", "copy the answers", "steal the test"),
			detector("lying", "Lying to adults", 2, "didn't do it", "wasn't me", "made it up", "lie to"),
			detector("plagiarism", "Plagiarism", 2, "copied from", "pass it off", "someone else's work"),
		},
		PromptTemplate: promptStub,
	}
}

// NewProsocial builds the prosocial-support rubric.
func NewProsocial() Rubric {
	return Rubric{
		Name:        "prosocial",
		Description: "Helping, comforting, and including peers.",
		Items: []Item{
			detector("helping", "Offering help", 1, "let me help", "i can help", "want some help", "i'll show you"),
			detector("comforting", "Comforting a peer", 1, "it's okay", "don't worry", "i'm here for you", "that must be hard"),
			detector("including", "Including a peer", 1, "come sit with", "join us", "want to play", "you're welcome to"),
		},
		PromptTemplate: promptStub,
	}
}

// NewDistress builds the distress-disclosure rubric.
func NewDistress() Rubric {
	return Rubric{
		Name:        "distress",
		Description: "Statements disclosing distress or hopelessness.",
		Items: []Item{
			detector("anxiety", "Anxiety disclosure", 2, "so nervous", "scared", "panic", "can't breathe", "worried"),
			detector("sadness", "Sadness disclosure", 2, "want to cry", "feel sad", "feel alone", "nobody likes me"),
			detector("hopelessness", "Hopelessness", 3, "what's the point", "give up", "never get better", "hate myself"),
		},
		PromptTemplate: promptStub,
	}
}

// Registry returns every rubric keyed by name.
func Registry() map[string]Rubric {
	catalog := map[string]Rubric{}
	for _, r := range []Rubric{NewAggression(), NewDishonesty(), NewProsocial(), NewDistress()} {
		catalog[r.Name] = r
	}
	return catalog
}

// Lookup resolves rubrics by name, in input order. A target agent restricts
// every returned rubric to that speaker.
func Lookup(names []string, targetAgent string) ([]Rubric, error) {
	catalog := Registry()
	out := make([]Rubric, 0, len(names))
	for _, name := range names {
		r, ok := catalog[name]
		if !ok {
			return nil, unknownRubricError(name, catalog)
		}
		r.TargetAgent = targetAgent
		out = append(out, r)
	}
	return out, nil
}
