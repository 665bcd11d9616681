// Package persona generates randomized chat partners from embedded tables.
package persona

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ashureev/rizz-labs/internal/domain"
)

//go:embed tables.yaml
var rawTables []byte

// Tables holds every list the generator draws from.
type Tables struct {
	Names struct {
		Feminine  []string `yaml:"feminine"`
		Masculine []string `yaml:"masculine"`
		Neutral   []string `yaml:"neutral"`
	} `yaml:"names"`
	Personalities      []string            `yaml:"personalities"`
	Interests          []string            `yaml:"interests"`
	ConversationStyles []string            `yaml:"conversation_styles"`
	Avatars            []string            `yaml:"avatars"`
	Bios               []string            `yaml:"bios"`
	Openers            map[string][]string `yaml:"openers"`
	DefaultOpeners     []string            `yaml:"default_openers"`
	FailsafeReplies    []string            `yaml:"failsafe_replies"`
}

const (
	defaultMinAge = 20
	defaultMaxAge = 25
)

var tables = mustLoad(rawTables)

func mustLoad(data []byte) *Tables {
	t, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("persona: embedded tables: %v", err))
	}
	return t
}

// Load parses a YAML table document and checks that every list is populated.
func Load(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	required := map[string][]string{
		"names.feminine":      t.Names.Feminine,
		"names.masculine":     t.Names.Masculine,
		"names.neutral":       t.Names.Neutral,
		"personalities":       t.Personalities,
		"interests":           t.Interests,
		"conversation_styles": t.ConversationStyles,
		"avatars":             t.Avatars,
		"bios":                t.Bios,
		"default_openers":     t.DefaultOpeners,
		"failsafe_replies":    t.FailsafeReplies,
	}
	for key, list := range required {
		if len(list) == 0 {
			return nil, fmt.Errorf("table %s is empty", key)
		}
	}
	if len(t.Interests) < 5 {
		return nil, fmt.Errorf("table interests needs at least 5 entries, has %d", len(t.Interests))
	}
	return &t, nil
}

// Default returns the embedded tables.
func Default() *Tables {
	return tables
}

// Generate builds a persona matching the player's preferences.
func Generate(prefs *domain.Preferences, rng *rand.Rand) domain.Persona {
	return tables.Generate(prefs, rng)
}

// FirstMessage picks the persona's opening line.
func FirstMessage(p domain.Persona, rng *rand.Rand) string {
	return tables.FirstMessage(p, rng)
}

// FailsafeReply picks a canned reply used when no completion text is available.
func FailsafeReply(p domain.Persona, rng *rand.Rand) string {
	return tables.FailsafeReply(p, rng)
}

// Generate builds a persona from t.
func (t *Tables) Generate(prefs *domain.Preferences, rng *rand.Rand) domain.Persona {
	gender, orientation := "", ""
	minAge, maxAge := defaultMinAge, defaultMaxAge
	if prefs != nil {
		gender, orientation = prefs.GenderIdentity, prefs.SexualOrientation
		if prefs.AgeRange.Min > 0 && prefs.AgeRange.Max >= prefs.AgeRange.Min {
			minAge, maxAge = prefs.AgeRange.Min, prefs.AgeRange.Max
		}
	}

	p := domain.Persona{
		Name:              pick(rng, t.namePool(gender, orientation, rng)),
		Personality:       pick(rng, t.Personalities),
		ConversationStyle: pick(rng, t.ConversationStyles),
		Avatar:            pick(rng, t.Avatars),
		Age:               minAge + rng.IntN(maxAge-minAge+1),
		Interests:         sample(rng, t.Interests, 3+rng.IntN(3)),
	}
	p.Bio = fill(pick(rng, t.Bios), p)
	return p
}

// FirstMessage picks an opener keyed by personality, or a default one.
func (t *Tables) FirstMessage(p domain.Persona, rng *rand.Rand) string {
	openers := t.Openers[p.Personality]
	if len(openers) == 0 {
		openers = t.DefaultOpeners
	}
	return fill(pick(rng, openers), p)
}

// FailsafeReply picks a failsafe reply filled with the persona's details.
func (t *Tables) FailsafeReply(p domain.Persona, rng *rand.Rand) string {
	return fill(pick(rng, t.FailsafeReplies), p)
}

// namePool maps the player's identity and orientation to the pool of names the persona draws from.
func (t *Tables) namePool(gender, orientation string, rng *rand.Rand) []string {
	opposite := func() []string {
		switch gender {
		case "Man":
			return t.Names.Feminine
		case "Woman":
			return t.Names.Masculine
		}
		return t.Names.Neutral
	}
	same := func() []string {
		switch gender {
		case "Man":
			return t.Names.Masculine
		case "Woman":
			return t.Names.Feminine
		}
		return t.Names.Neutral
	}

	switch orientation {
	case "Straight":
		return opposite()
	case "Gay", "Lesbian":
		return same()
	case "Bisexual":
		if rng.Float64() < 0.5 {
			return opposite()
		}
		return same()
	case "Pansexual":
		switch r := rng.Float64(); {
		case r < 0.4:
			return opposite()
		case r < 0.8:
			return same()
		default:
			return t.Names.Neutral
		}
	}
	all := make([]string, 0, len(t.Names.Feminine)+len(t.Names.Masculine)+len(t.Names.Neutral))
	all = append(all, t.Names.Feminine...)
	all = append(all, t.Names.Masculine...)
	return append(all, t.Names.Neutral...)
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.IntN(len(list))]
}

// sample returns n distinct entries of list in random order.
func sample(rng *rand.Rand, list []string, n int) []string {
	n = min(n, len(list))
	idx := rng.Perm(len(list))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = list[j]
	}
	return out
}

func fill(template string, p domain.Persona) string {
	interest := func(i int) string {
		if i < len(p.Interests) {
			return p.Interests[i]
		}
		return "vibing"
	}
	return strings.NewReplacer(
		"{name}", p.Name,
		"{age}", strconv.Itoa(p.Age),
		"{personality}", p.Personality,
		"{interest1}", interest(0),
		"{interest2}", interest(1),
	).Replace(template)
}
