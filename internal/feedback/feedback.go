// Package feedback turns a classifier verdict and its confidence into the
// message and state token shown by the AR client.
package feedback

// Verdict is the classifier's judgement of a recitation.
type Verdict int

const (
	Correct Verdict = iota
	Incorrect
)

func (v Verdict) String() string {
	if v == Correct {
		return "Correct"
	}
	return "Incorrect"
}

// VerdictForIndex maps a class index to a verdict. Index 0 is the
// "Benar" class; any other index is treated as incorrect.
func VerdictForIndex(i int) Verdict {
	if i == 0 {
		return Correct
	}
	return Incorrect
}

// Feedback state tokens consumed by the client UI.
const (
	StateIncorrect      = "salah"
	StateNotAccurate    = "kurangtepat"
	StateAlmostAccurate = "hampirtepat"
	StateAlmostCorrect  = "hampirbenar"
	StateCorrect        = "benar"
)

// Confidence thresholds; each is an exclusive upper bound.
const (
	notAccurateBelow    = 0.6
	almostAccurateBelow = 0.7
	almostCorrectBelow  = 0.8
)

// Decision is the feedback for one prediction.
type Decision struct {
	Message string
	State   string
}

// Map applies the feedback decision table. Thresholds are evaluated in
// order and the first match wins.
func Map(v Verdict, confidence float64) Decision {
	switch {
	case v != Correct:
		return Decision{Message: "Reading is INCORRECT. Try again!", State: StateIncorrect}
	case confidence < notAccurateBelow:
		return Decision{Message: "Reading is not accurate", State: StateNotAccurate}
	case confidence < almostAccurateBelow:
		return Decision{Message: "Reading is almost accurate", State: StateAlmostAccurate}
	case confidence < almostCorrectBelow:
		return Decision{Message: "Reading is almost correct", State: StateAlmostCorrect}
	default:
		return Decision{Message: "Reading is CORRECT", State: StateCorrect}
	}
}
