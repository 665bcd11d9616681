package domain

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrInvalidPreferences is returned when landing-page preferences fail validation.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Persona is the simulated chat partner.
type Persona struct {
	Name              string   `json:"name"`
	Personality       string   `json:"personality"`
	Bio               string   `json:"bio"`
	Avatar            string   `json:"avatar"`
	Age               int      `json:"age"`
	Interests         []string `json:"interests"`
	ConversationStyle string   `json:"conversation_style"`
}

// AgeRange bounds the persona's age.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences are collected from the player before a session starts.
type Preferences struct {
	Name              string   `json:"name"`
	AgeRange          AgeRange `json:"age_range"`
	GenderIdentity    string   `json:"gender_identity"`
	SexualOrientation string   `json:"sexual_orientation"`
}

// GenderOptions lists accepted gender identities.
var GenderOptions = []string{
	"Woman", "Man", "Non-binary", "Genderfluid", "Agender", "Prefer not to say", "Other",
}

// OrientationOptions lists accepted sexual orientations.
var OrientationOptions = []string{
	"Straight", "Gay", "Lesbian", "Bisexual", "Pansexual", "Asexual", "Queer", "Prefer not to say", "Other",
}

// PreferenceErrors maps a field name to a human readable problem.
type PreferenceErrors map[string]string

func (e PreferenceErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrInvalidPreferences.
func (e PreferenceErrors) Unwrap() error {
	return ErrInvalidPreferences
}

// Validate checks the landing form rules. The returned error, if any, is a PreferenceErrors.
func (p *Preferences) Validate() error {
	errs := PreferenceErrors{}

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case len([]rune(name)) < 2:
		errs["name"] = "Name must be at least 2 characters"
	}

	if p.GenderIdentity == "" {
		errs["gender_identity"] = "Please select your gender identity"
	} else if !slices.Contains(GenderOptions, p.GenderIdentity) {
		errs["gender_identity"] = fmt.Sprintf("Unknown gender identity %q", p.GenderIdentity)
	}

	if p.SexualOrientation == "" {
		errs["sexual_orientation"] = "Please select your sexual orientation"
	} else if !slices.Contains(OrientationOptions, p.SexualOrientation) {
		errs["sexual_orientation"] = fmt.Sprintf("Unknown sexual orientation %q", p.SexualOrientation)
	}

	if p.AgeRange.Min < 18 || p.AgeRange.Max > 99 {
		errs["age_range"] = "Age range must be between 18-99"
	}
	if p.AgeRange.Min >= p.AgeRange.Max {
		errs["age_range"] = "Minimum age must be less than maximum age"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
