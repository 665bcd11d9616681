package completion

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/ashureev/rizz-labs/internal/domain"
)

const (
	baseInterest     = 2.0
	interestWindow   = 4
	longMessageChars = 50
)

var interestSignals = []struct {
	pattern *regexp.Regexp
	bonus   float64
}{
	{regexp.MustCompile(`what do you like|tell me about|what are you into|favorite|hobbies|interests|passion`), 2},
	{regexp.MustCompile(`haha|lol|😂|funny|hilarious|😄|😆`), 1.5},
	{regexp.MustCompile(`beautiful|gorgeous|cute|pretty|amazing|incredible|stunning|lovely|attractive|sweet`), 1.5},
	{regexp.MustCompile(`wink|😉|😏|flirt|tease|charm|smooth|rizz|fire|🔥`), 1.5},
	{regexp.MustCompile(`wow|omg|amazing|incredible|awesome|love|adore|obsessed|perfect`), 1},
}

// EstimateInterest scores how charmed the persona is by the recent player messages.
// Only bonuses apply; the result is jittered by rng and clamped to [0, 10].
func EstimateInterest(c domain.ConversationContext, rng *rand.Rand) float64 {
	interest := baseInterest
	for _, turn := range c.RecentTurns(interestWindow) {
		if turn.Role != domain.RoleUser {
			continue
		}
		interest += messageBonus(strings.ToLower(turn.Content))
	}
	interest += min(float64(c.MessageCount)*0.3, 3)
	if rng != nil {
		interest += rng.Float64() - 0.3
	}
	return domain.ClampInterest(interest)
}

func messageBonus(content string) float64 {
	var bonus float64
	for _, s := range interestSignals {
		if s.pattern.MatchString(content) {
			bonus += s.bonus
		}
	}
	if len(content) > longMessageChars {
		bonus++
	}
	return bonus
}
