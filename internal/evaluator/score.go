package evaluator

import (
	"math"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// Breakdown exposes the sub-scores that make up a rizz index.
type Breakdown struct {
	TimeScore       int     `json:"time_score"`
	MessageScore    int     `json:"message_score"`
	Efficiency      int     `json:"efficiency"`
	Charm           float64 `json:"charm"`
	Consistency     int     `json:"consistency"`
	WordsPerMessage float64 `json:"words_per_message"`
	Multiplier      float64 `json:"multiplier"`
	OutcomeBonus    int     `json:"outcome_bonus"`
	LegendaryBonus  int     `json:"legendary_bonus"`
	Raw             float64 `json:"raw"`
}

// Score is the final rizz index with its rating label.
type Score struct {
	Value     int       `json:"score"`
	Rating    string    `json:"rating"`
	Breakdown Breakdown `json:"breakdown"`
}

type timeStep struct {
	below  float64
	points int
}

var timeSteps = []timeStep{
	{30, 20}, {60, 18}, {90, 15}, {120, 12}, {180, 8}, {240, 5}, {300, 2},
}

type messageStep struct {
	atMost int
	points int
}

var messageSteps = []messageStep{
	{2, 20}, {3, 18}, {5, 15}, {8, 10}, {12, 5}, {20, 2},
}

// ComputeScore turns session metrics into a rizz index in [0, 100].
// Degenerate inputs (negative, NaN) are treated as zero.
func ComputeScore(wordCount int, elapsedSeconds float64, messageCount int, interest float64, kind domain.Outcome) Score {
	elapsed := elapsedSeconds
	if math.IsNaN(elapsed) || elapsed < 0 {
		elapsed = 0
	}
	interest = domain.ClampInterest(interest)
	wordCount = max(wordCount, 0)
	messageCount = max(messageCount, 0)

	b := Breakdown{}
	b.Multiplier, b.OutcomeBonus = outcomeFactors(kind)

	b.TimeScore = timeScore(elapsed)
	b.MessageScore = messageScore(messageCount)
	b.Efficiency = b.TimeScore + b.MessageScore

	b.Charm = math.Min(interest*3, 30)

	b.WordsPerMessage = float64(wordCount) / float64(max(messageCount, 1))
	b.Consistency = 20
	switch {
	case b.WordsPerMessage < 3:
		b.Consistency -= 10
	case b.WordsPerMessage > 25:
		b.Consistency -= 8
	case b.WordsPerMessage > 20:
		b.Consistency -= 5
	case b.WordsPerMessage > 15:
		b.Consistency -= 2
	}

	if kind == domain.OutcomeDateSecured {
		b.LegendaryBonus = legendaryBonus(elapsed, messageCount, interest)
	}

	b.Raw = (float64(b.Efficiency) + b.Charm + float64(b.Consistency)) * b.Multiplier
	final := math.Round(b.Raw + float64(b.OutcomeBonus) + float64(b.LegendaryBonus))
	value := int(math.Max(0, math.Min(100, final)))

	return Score{
		Value:     value,
		Rating:    RatingLabel(value, kind),
		Breakdown: b,
	}
}

func outcomeFactors(kind domain.Outcome) (multiplier float64, bonus int) {
	switch kind {
	case domain.OutcomeDateSecured:
		return 1.0, 20
	case domain.OutcomeFriendzoned:
		return 0.4, 0
	default:
		// Timeout, and Continue when a running session is previewed.
		return 0.6, 0
	}
}

func timeScore(elapsed float64) int {
	for _, s := range timeSteps {
		if elapsed < s.below {
			return s.points
		}
	}
	return 0
}

func messageScore(count int) int {
	for _, s := range messageSteps {
		if count <= s.atMost {
			return s.points
		}
	}
	return 0
}

func legendaryBonus(elapsed float64, messageCount int, interest float64) int {
	switch {
	case elapsed < 30 && messageCount <= 2:
		return 20
	case elapsed < 60 && messageCount <= 3:
		return 15
	case interest >= 9:
		return 10
	}
	return 0
}
