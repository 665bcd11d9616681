package evaluator

import (
	"math"
	"time"
)

// SessionBudget is the wall-clock time a player gets per session.
const SessionBudget = 300 * time.Second

// IsExpired reports whether the session that started at start has used up its budget at now.
func IsExpired(start, now time.Time) bool {
	return now.Sub(start) >= SessionBudget
}

// Remaining returns the unused part of the budget, never negative.
func Remaining(start, now time.Time) time.Duration {
	left := SessionBudget - now.Sub(start)
	if left < 0 {
		return 0
	}
	return left
}

// RemainingSeconds rounds the remaining budget up to whole seconds for countdown display.
func RemainingSeconds(start, now time.Time) int {
	return int(math.Ceil(Remaining(start, now).Seconds()))
}
