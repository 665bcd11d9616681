package evaluator

import "github.com/ashureev/rizz-labs/internal/domain"

type ratingTier struct {
	min         int
	generic     string
	timeout     string
	friendzoned string
}

// Tiers are ordered from best to worst; an empty outcome label falls back to generic.
var ratingTiers = []ratingTier{
	{100, "LEGENDARY RIZZ", "", ""},
	{90, "UNSTOPPABLE RIZZ", "", ""},
	{80, "ELITE RIZZ", "", ""},
	{70, "SMOOTH OPERATOR", "", ""},
	{60, "SOLID RIZZ", "TIMEOUT - SO CLOSE", ""},
	{45, "DECENT RIZZ", "TIMEOUT - ALMOST HAD IT", "FRIENDZONED - DECENT EFFORT"},
	{30, "MID RIZZ", "TIMEOUT - NEEDS SPEED", "FRIENDZONED - NICE TRY"},
	{15, "WEAK RIZZ", "TIMEOUT - TOO SLOW", "FRIENDZONED - OUCH"},
	{0, "RIZZ-LESS", "TIMEOUT - RIZZ-LESS", "FRIENDZONED - RIZZ-LESS"},
}

// RatingLabel returns the label for a final score and outcome.
func RatingLabel(score int, kind domain.Outcome) string {
	for _, t := range ratingTiers {
		if score < t.min {
			continue
		}
		switch {
		case kind == domain.OutcomeTimeout && t.timeout != "":
			return t.timeout
		case kind == domain.OutcomeFriendzoned && t.friendzoned != "":
			return t.friendzoned
		}
		return t.generic
	}
	return ratingTiers[len(ratingTiers)-1].generic
}
