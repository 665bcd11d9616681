// Package evaluator decides how a conversation turn ends the game and how the
// player scored. Everything here is a pure function of its arguments.
package evaluator

import (
	"strings"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// MinDateInterest is the lowest interest level at which a persona may accept a date.
const MinDateInterest = 4.0

// Tier names the rule set that decided a classification.
type Tier string

const (
	TierEmpty      Tier = "empty"
	TierFriendzone Tier = "friendzone"
	TierStalling   Tier = "stalling"
	TierAgreement  Tier = "agreement"
	TierNone       Tier = "none"
)

// Classification is the outcome plus the signals that produced it.
type Classification struct {
	Outcome    domain.Outcome `json:"outcome"`
	Tier       Tier           `json:"tier"`
	Invited    bool           `json:"invited"`
	Agreed     bool           `json:"agreed"`
	InterestOK bool           `json:"interest_ok"`
}

// ClassifyOutcome maps a persona reply, the player's preceding message and the
// current interest level to an outcome. Friendzone beats stalling beats agreement.
func ClassifyOutcome(reply, priorUser string, interest float64) domain.Outcome {
	return Classify(reply, priorUser, interest).Outcome
}

// Classify is ClassifyOutcome with the intermediate signals exposed.
func Classify(reply, priorUser string, interest float64) Classification {
	text := normalize(reply)
	if text == "" {
		return Classification{Outcome: domain.OutcomeContinue, Tier: TierEmpty}
	}

	if IsFriendzone(text) {
		return Classification{Outcome: domain.OutcomeFriendzoned, Tier: TierFriendzone}
	}
	if isStalling(text) {
		return Classification{Outcome: domain.OutcomeContinue, Tier: TierStalling}
	}

	c := Classification{
		Outcome:    domain.OutcomeContinue,
		Tier:       TierNone,
		Invited:    UserInvitedDate(priorUser),
		InterestOK: interest >= MinDateInterest,
	}
	c.Agreed = matchesAny(agreementPatterns, text) ||
		(c.Invited && bareAffirmativePattern.MatchString(text))
	if c.Agreed {
		c.Tier = TierAgreement
	}
	if c.Agreed && c.Invited && c.InterestOK {
		c.Outcome = domain.OutcomeDateSecured
	}
	return c
}

// IsFriendzone reports whether the reply is a platonic rejection.
func IsFriendzone(reply string) bool {
	return matchesAny(friendzonePatterns, normalize(reply))
}

// IsStalling reports whether the reply defers escalation.
func IsStalling(reply string) bool {
	return isStalling(normalize(reply))
}

func isStalling(text string) bool {
	return matchesAny(stallingPatterns, eagerNotPattern.ReplaceAllString(text, ""))
}

// UserInvitedDate reports whether the player's message asks the persona out:
// an activity noun together with an invitation phrase or a question mark, or
// an unambiguous direct invitation.
func UserInvitedDate(userText string) bool {
	text := normalize(userText)
	if text == "" {
		return false
	}
	if matchesAny(directInvitationPatterns, text) {
		return true
	}
	if !activityPattern.MatchString(text) {
		return false
	}
	return invitationPattern.MatchString(text) || strings.Contains(text, "?")
}
