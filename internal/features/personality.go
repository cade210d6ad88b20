package features

import (
	"errors"
	"fmt"
)

// NumTraits is the number of personality trait ratings.
const NumTraits = 26

// ErrUnknownFeature is returned when an input names a feature the model does not have.
var ErrUnknownFeature = errors.New("unknown feature")

// TraitRange bounds every trait rating.
var TraitRange = Range{Min: 0, Max: 10, Default: 5, Step: 1}

var traitNames = [NumTraits]string{
	"social_energy",
	"alone_time_preference",
	"talkativeness",
	"deep_reflection",
	"group_comfort",
	"party_liking",
	"listening_skill",
	"empathy",
	"organization",
	"leadership",
	"risk_taking",
	"public_speaking_comfort",
	"curiosity",
	"routine_preference",
	"excitement_seeking",
	"friendliness",
	"planning",
	"spontaneity",
	"adventurousness",
	"reading_habit",
	"sports_interest",
	"online_social_usage",
	"travel_desire",
	"gadget_usage",
	"work_style_collaborative",
	"decision_speed",
}

var traitIndex = func() map[string]int {
	m := make(map[string]int, NumTraits)
	for i, name := range traitNames {
		m[name] = i
	}
	return m
}()

// TraitNames returns the trait names in vector order.
func TraitNames() []string {
	return append([]string(nil), traitNames[:]...)
}

// Traits holds one rating per trait in PersonalityContract order.
type Traits [NumTraits]float64

// DefaultTraits returns every trait at its default rating.
func DefaultTraits() Traits {
	var t Traits
	for i := range t {
		t[i] = TraitRange.Default
	}
	return t
}

// TraitsFromMap builds Traits from named ratings. Missing traits take the default;
// an unknown name is an error.
func TraitsFromMap(values map[string]float64) (Traits, error) {
	t := DefaultTraits()
	for name, v := range values {
		i, ok := traitIndex[name]
		if !ok {
			return Traits{}, fmt.Errorf("%w: %s", ErrUnknownFeature, name)
		}
		t[i] = v
	}
	return t, nil
}

// Set assigns the rating of a named trait.
func (t *Traits) Set(name string, v float64) error {
	i, ok := traitIndex[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}
	t[i] = v
	return nil
}

// Get returns the rating of a named trait.
func (t Traits) Get(name string) (float64, bool) {
	i, ok := traitIndex[name]
	if !ok {
		return 0, false
	}
	return t[i], true
}

// Validate checks every rating against TraitRange.
func (t Traits) Validate() error {
	for i, v := range t {
		if err := TraitRange.check(traitNames[i], v); err != nil {
			return err
		}
	}
	return nil
}

// Vector returns a copy of the ratings in vector order.
func (t Traits) Vector() []float64 {
	v := make([]float64, NumTraits)
	copy(v, t[:])
	return v
}

// Map returns the ratings keyed by trait name.
func (t Traits) Map() map[string]float64 {
	m := make(map[string]float64, NumTraits)
	for i, name := range traitNames {
		m[name] = t[i]
	}
	return m
}
