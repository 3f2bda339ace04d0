package survey

import (
	"fmt"
	"sort"
)

// The catalogue is fixed-content: adding an instrument means adding a
// constructor here with its own scoring policy.

const (
	dimTotal      = "Total"
	dimDepression = "Depression"
	dimAnxiety    = "Anxiety"
	dimStress     = "Stress"
	dimBehavioral = "Behavioral"
	dimEmotional  = "Emotional"
)

func bfneItem(statement string, ascending bool) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimTotal,
		Choices:        characteristic5,
		AscendingScale: ascending,
	}
}

// NewBFNE builds the Brief Fear of Negative Evaluation scale: 12 items,
// 1-based 5-point scale, four reverse-scored items.
func NewBFNE() *Instrument {
	in := &Instrument{
		InstrumentName:       "BFNE",
		Description:          "Brief Fear of Negative Evaluation scale.",
		ObservationPreprompt: "Answer as the character you are playing, based on everything that has happened so far.",
		Preprompt:            "Read each statement and choose how characteristic it is of you: ",
		Dimensions:           []string{dimTotal},
		ValueOffset:          1,
		Items: []Question{
			bfneItem("I worry about what other people will think of me even when I know it doesn't make any difference.", true),
			bfneItem("I am unconcerned even if I know people are forming an unfavorable impression of me.", false),
			bfneItem("I am frequently afraid of other people noticing my shortcomings.", true),
			bfneItem("I rarely worry about what kind of impression I am making on someone.", false),
			bfneItem("I am afraid that others will not approve of me.", true),
			bfneItem("I am afraid that people will find fault with me.", true),
			bfneItem("Other people's opinions of me do not bother me.", false),
			bfneItem("When I am talking to someone, I worry about what they may be thinking about me.", true),
			bfneItem("I am usually worried about what kind of impression I make.", true),
			bfneItem("If I know someone is judging me, it has little effect on me.", false),
			bfneItem("Sometimes I think I am too concerned with what other people think of me.", true),
			bfneItem("I often worry that I will say or do the wrong things.", true),
		},
	}
	return in
}

func dassItem(statement, dimension string) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimension,
		Choices:        applied4,
		AscendingScale: true,
	}
}

// NewDASS21 builds the 21-item Depression Anxiety Stress Scales. Values stay
// 0-based per item; aggregates double to full-DASS equivalents.
func NewDASS21() *Instrument {
	return &Instrument{
		InstrumentName:       "DASS",
		Description:          "Depression Anxiety Stress Scales, 21-item form.",
		ObservationPreprompt: "Answer as the character you are playing, thinking about the past week.",
		Preprompt:            "Choose how much this statement applied to you over the past week: ",
		Dimensions:           []string{dimDepression, dimAnxiety, dimStress},
		AggregateScale:       2,
		Items: []Question{
			dassItem("I found it hard to wind down.", dimStress),
			dassItem("I was aware of dryness of my mouth.", dimAnxiety),
			dassItem("I couldn't seem to experience any positive feeling at all.", dimDepression),
			dassItem("I experienced breathing difficulty.", dimAnxiety),
			dassItem("I found it difficult to work up the initiative to do things.", dimDepression),
			dassItem("I tended to over-react to situations.", dimStress),
			dassItem("I experienced trembling (for example, in the hands).", dimAnxiety),
			dassItem("I felt that I was using a lot of nervous energy.", dimStress),
			dassItem("I was worried about situations in which I might panic and make a fool of myself.", dimAnxiety),
			dassItem("I felt that I had nothing to look forward to.", dimDepression),
			dassItem("I found myself getting agitated.", dimStress),
			dassItem("I found it difficult to relax.", dimStress),
			dassItem("I felt down-hearted and blue.", dimDepression),
			dassItem("I was intolerant of anything that kept me from getting on with what I was doing.", dimStress),
			dassItem("I felt I was close to panic.", dimAnxiety),
			dassItem("I was unable to become enthusiastic about anything.", dimDepression),
			dassItem("I felt I wasn't worth much as a person.", dimDepression),
			dassItem("I felt that I was rather touchy.", dimStress),
			dassItem("I was aware of the action of my heart in the absence of physical exertion.", dimAnxiety),
			dassItem("I felt scared without any good reason.", dimAnxiety),
			dassItem("I felt that life was meaningless.", dimDepression),
		},
	}
}

func rsesItem(statement string, ascending bool) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimTotal,
		Choices:        agreement4,
		AscendingScale: ascending,
	}
}

// NewRSES builds the Rosenberg Self-Esteem Scale: 10 items on a 1-based
// 4-point agreement scale, five reverse-scored.
func NewRSES() *Instrument {
	return &Instrument{
		InstrumentName:       "RSES",
		Description:          "Rosenberg Self-Esteem Scale.",
		ObservationPreprompt: "Answer as the character you are playing, based on how you feel about yourself.",
		Preprompt:            "Choose how much you agree with this statement: ",
		Dimensions:           []string{dimTotal},
		ValueOffset:          1,
		Items: []Question{
			rsesItem("On the whole, I am satisfied with myself.", true),
			rsesItem("At times I think I am no good at all.", false),
			rsesItem("I feel that I have a number of good qualities.", true),
			rsesItem("I am able to do things as well as most other people.", true),
			rsesItem("I feel I do not have much to be proud of.", false),
			rsesItem("I certainly feel useless at times.", false),
			rsesItem("I feel that I'm a person of worth, at least on an equal plane with others.", true),
			rsesItem("I wish I could have more respect for myself.", false),
			rsesItem("All in all, I am inclined to feel that I am a failure.", false),
			rsesItem("I take a positive attitude toward myself.", true),
		},
	}
}

func gadItem(statement string) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimTotal,
		Choices:        frequency4,
		AscendingScale: true,
	}
}

// NewGAD7 builds the 7-item Generalized Anxiety Disorder screener.
func NewGAD7() *Instrument {
	return &Instrument{
		InstrumentName:       "GAD7",
		Description:          "Generalized Anxiety Disorder 7-item screener.",
		ObservationPreprompt: "Answer as the character you are playing, thinking about the past two weeks.",
		Preprompt:            "Over the last two weeks, how often have you been bothered by the following problem: ",
		Dimensions:           []string{dimTotal},
		Items: []Question{
			gadItem("Feeling nervous, anxious, or on edge."),
			gadItem("Not being able to stop or control worrying."),
			gadItem("Worrying too much about different things."),
			gadItem("Trouble relaxing."),
			gadItem("Being so restless that it is hard to sit still."),
			gadItem("Becoming easily annoyed or irritable."),
			gadItem("Feeling afraid as if something awful might happen."),
		},
	}
}

func aesItem(statement, dimension string, ascending bool) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimension,
		Choices:        agreement5,
		AscendingScale: ascending,
	}
}

// NewAES builds the academic engagement scale used in classroom scenarios:
// behavioral and emotional engagement on a 1-based 5-point agreement scale.
func NewAES() *Instrument {
	return &Instrument{
		InstrumentName:       "AES",
		Description:          "Academic engagement scale (behavioral and emotional).",
		ObservationPreprompt: "Answer as the character you are playing, thinking about school.",
		Preprompt:            "Choose how much you agree with this statement about school: ",
		Dimensions:           []string{dimBehavioral, dimEmotional},
		ValueOffset:          1,
		Items: []Question{
			aesItem("I pay attention in class.", dimBehavioral, true),
			aesItem("I complete my homework on time.", dimBehavioral, true),
			aesItem("I participate in class discussions.", dimBehavioral, true),
			aesItem("I keep trying even when the work is hard.", dimBehavioral, true),
			aesItem("I enjoy learning new things at school.", dimEmotional, true),
			aesItem("I feel excited about my classes.", dimEmotional, true),
			aesItem("I feel bored at school.", dimEmotional, false),
			aesItem("I am proud of the work I do at school.", dimEmotional, true),
		},
	}
}

func ctsItem(statement string, ascending bool) Question {
	return Question{
		Statement:      statement,
		Dimension:      dimTotal,
		Choices:        agreement5,
		AscendingScale: ascending,
	}
}

// NewCTS builds the classroom trust and safety scale.
func NewCTS() *Instrument {
	return &Instrument{
		InstrumentName:       "CTS",
		Description:          "Classroom trust and safety scale.",
		ObservationPreprompt: "Answer as the character you are playing, thinking about your classroom.",
		Preprompt:            "Choose how much you agree with this statement about your classroom: ",
		Dimensions:           []string{dimTotal},
		ValueOffset:          1,
		Items: []Question{
			ctsItem("I feel safe in my classroom.", true),
			ctsItem("My teacher treats students fairly.", true),
			ctsItem("Students in my class help each other.", true),
			ctsItem("I am afraid of being laughed at in class.", false),
			ctsItem("Other students take my things or push me around.", false),
			ctsItem("There is an adult at school I can talk to when something is wrong.", true),
		},
	}
}

// Registry returns every instrument keyed by name.
func Registry() map[string]*Instrument {
	catalog := map[string]*Instrument{}
	for _, in := range []*Instrument{NewBFNE(), NewDASS21(), NewRSES(), NewGAD7(), NewAES(), NewCTS()} {
		if err := in.validate(); err != nil {
			// Catalogue content is compiled in; an invalid instrument is a bug.
			panic(err)
		}
		catalog[in.InstrumentName] = in
	}
	return catalog
}

// Lookup resolves instruments by name, in input order.
func Lookup(names []string) ([]*Instrument, error) {
	catalog := Registry()
	out := make([]*Instrument, 0, len(names))
	for _, name := range names {
		in, ok := catalog[name]
		if !ok {
			return nil, fmt.Errorf("unknown questionnaire %q (known: %s)", name, knownNames(catalog))
		}
		out = append(out, in)
	}
	return out, nil
}

func knownNames(catalog map[string]*Instrument) string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	joined := ""
	for i, name := range names {
		if i > 0 {
			joined += ", "
		}
		joined += name
	}
	return joined
}
