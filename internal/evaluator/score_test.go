package evaluator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rizz-labs/internal/domain"
)

func TestComputeScore_LegendaryClamped(t *testing.T) {
	s := ComputeScore(8, 20, 2, 9, domain.OutcomeDateSecured)

	assert.Equal(t, 40, s.Breakdown.Efficiency)
	assert.InDelta(t, 27, s.Breakdown.Charm, 1e-9)
	assert.Equal(t, 20, s.Breakdown.Consistency)
	assert.InDelta(t, 87, s.Breakdown.Raw, 1e-9)
	assert.Equal(t, 20, s.Breakdown.OutcomeBonus)
	assert.Equal(t, 20, s.Breakdown.LegendaryBonus)
	assert.Equal(t, 100, s.Value)
	assert.Equal(t, "LEGENDARY RIZZ", s.Rating)
}

func TestComputeScore_TimeoutModestEngagement(t *testing.T) {
	s := ComputeScore(60, 300, 10, 3, domain.OutcomeTimeout)

	assert.Equal(t, 0, s.Breakdown.TimeScore)
	assert.Equal(t, 5, s.Breakdown.MessageScore)
	assert.InDelta(t, 9, s.Breakdown.Charm, 1e-9)
	assert.Equal(t, 20, s.Breakdown.Consistency)
	assert.InDelta(t, 20.4, s.Breakdown.Raw, 1e-9)
	assert.Equal(t, 20, s.Value)
	assert.Equal(t, "TIMEOUT - TOO SLOW", s.Rating)
}

func TestComputeScore_FriendzoneLowEngagement(t *testing.T) {
	s := ComputeScore(20, 89, 4, 2, domain.OutcomeFriendzoned)
	assert.Equal(t, 15, s.Breakdown.TimeScore)
	assert.Equal(t, 15, s.Breakdown.MessageScore)
	assert.InDelta(t, 22.4, s.Breakdown.Raw, 1e-9)
	assert.Equal(t, 22, s.Value)
	assert.Equal(t, "FRIENDZONED - OUCH", s.Rating)

	// 90s is outside the "<90s" bucket.
	s = ComputeScore(20, 90, 4, 2, domain.OutcomeFriendzoned)
	assert.Equal(t, 12, s.Breakdown.TimeScore)
	assert.Equal(t, 21, s.Value)
}

func TestComputeScore_ConsistencyDeductions(t *testing.T) {
	tests := []struct {
		words, messages int
		want            int
	}{
		{words: 2, messages: 1, want: 10},
		{words: 3, messages: 1, want: 20},
		{words: 15, messages: 1, want: 20},
		{words: 16, messages: 1, want: 18},
		{words: 21, messages: 1, want: 15},
		{words: 26, messages: 1, want: 12},
		{words: 0, messages: 0, want: 10},
	}
	for _, tt := range tests {
		s := ComputeScore(tt.words, 100, tt.messages, 5, domain.OutcomeTimeout)
		assert.Equal(t, tt.want, s.Breakdown.Consistency, "words=%d messages=%d", tt.words, tt.messages)
	}
}

func TestComputeScore_LegendaryPriority(t *testing.T) {
	assert.Equal(t, 20, ComputeScore(10, 29, 2, 10, domain.OutcomeDateSecured).Breakdown.LegendaryBonus)
	assert.Equal(t, 15, ComputeScore(10, 59, 3, 10, domain.OutcomeDateSecured).Breakdown.LegendaryBonus)
	assert.Equal(t, 10, ComputeScore(10, 200, 9, 9, domain.OutcomeDateSecured).Breakdown.LegendaryBonus)
	assert.Equal(t, 0, ComputeScore(10, 200, 9, 8.9, domain.OutcomeDateSecured).Breakdown.LegendaryBonus)
	assert.Equal(t, 0, ComputeScore(10, 20, 2, 10, domain.OutcomeTimeout).Breakdown.LegendaryBonus)
}

func TestComputeScore_AlwaysInRange(t *testing.T) {
	kinds := []domain.Outcome{domain.OutcomeDateSecured, domain.OutcomeTimeout, domain.OutcomeFriendzoned, domain.OutcomeContinue}
	words := []int{-5, 0, 1, 50, math.MaxInt32}
	elapsed := []float64{-1, 0, 0.5, 300, 1e12, math.NaN(), math.Inf(1)}
	messages := []int{-1, 0, 1, 3, 1000000}
	interests := []float64{-3, 0, 4, 10, 50, math.NaN()}

	for _, k := range kinds {
		for _, w := range words {
			for _, e := range elapsed {
				for _, m := range messages {
					for _, in := range interests {
						s := ComputeScore(w, e, m, in, k)
						require.GreaterOrEqual(t, s.Value, 0)
						require.LessOrEqual(t, s.Value, 100)
						require.NotEmpty(t, s.Rating)
					}
				}
			}
		}
	}
}

func TestComputeScore_Idempotent(t *testing.T) {
	a := ComputeScore(42, 133.7, 7, 6.5, domain.OutcomeDateSecured)
	b := ComputeScore(42, 133.7, 7, 6.5, domain.OutcomeDateSecured)
	assert.Equal(t, a, b)
}

func TestRatingLabel(t *testing.T) {
	assert.Equal(t, "LEGENDARY RIZZ", RatingLabel(100, domain.OutcomeDateSecured))
	assert.Equal(t, "ELITE RIZZ", RatingLabel(85, domain.OutcomeTimeout))
	assert.Equal(t, "TIMEOUT - ALMOST HAD IT", RatingLabel(50, domain.OutcomeTimeout))
	assert.Equal(t, "FRIENDZONED - DECENT EFFORT", RatingLabel(50, domain.OutcomeFriendzoned))
	assert.Equal(t, "SOLID RIZZ", RatingLabel(65, domain.OutcomeFriendzoned))
	assert.Equal(t, "DECENT RIZZ", RatingLabel(50, domain.OutcomeDateSecured))
	assert.Equal(t, "RIZZ-LESS", RatingLabel(0, domain.OutcomeDateSecured))
	assert.Equal(t, "FRIENDZONED - RIZZ-LESS", RatingLabel(3, domain.OutcomeFriendzoned))
}
