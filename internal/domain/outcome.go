package domain

import (
	"fmt"
	"strings"
)

// Outcome classifies the state of a conversation after a persona reply.
type Outcome int

const (
	// OutcomeContinue means the game is still running.
	OutcomeContinue Outcome = iota
	// OutcomeDateSecured means the persona agreed to a date.
	OutcomeDateSecured
	// OutcomeFriendzoned means the persona rejected the player platonically.
	OutcomeFriendzoned
	// OutcomeTimeout means the time budget ran out.
	OutcomeTimeout
)

var outcomeNames = map[Outcome]string{
	OutcomeContinue:    "continue",
	OutcomeDateSecured: "date_secured",
	OutcomeFriendzoned: "friendzoned",
	OutcomeTimeout:     "timeout",
}

// IsTerminal reports whether the outcome ends the session.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeDateSecured || o == OutcomeFriendzoned || o == OutcomeTimeout
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome as its snake_case name.
func (o Outcome) MarshalText() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a snake_case outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome parses an outcome name. Dashes, spaces and case are ignored.
func ParseOutcome(s string) (Outcome, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for o, name := range outcomeNames {
		if name == key {
			return o, nil
		}
	}
	return OutcomeContinue, fmt.Errorf("unknown outcome %q", s)
}
