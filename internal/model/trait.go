// Package model defines the core data types shared across majorfit.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Trait is one of the six RIASEC personality dimensions.
type Trait string

// The six trait letters.
const (
	TraitRealistic     Trait = "R"
	TraitInvestigative Trait = "I"
	TraitArtistic      Trait = "A"
	TraitSocial        Trait = "S"
	TraitEnterprising  Trait = "E"
	TraitConventional  Trait = "C"
)

// ProfileLength is the number of letters in a complete trait profile.
const ProfileLength = 6

// AllTraits lists the traits in canonical RIASEC order.
var AllTraits = []Trait{
	TraitRealistic,
	TraitInvestigative,
	TraitArtistic,
	TraitSocial,
	TraitEnterprising,
	TraitConventional,
}

// Valid reports whether t is one of the six trait letters.
func (t Trait) Valid() bool {
	switch t {
	case TraitRealistic, TraitInvestigative, TraitArtistic,
		TraitSocial, TraitEnterprising, TraitConventional:
		return true
	}
	return false
}

// ParseTrait normalizes a raw code to a trait letter. Only the first
// character is considered, so "realistic" parses as R.
func ParseTrait(raw string) (Trait, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty trait code")
	}
	t := Trait(strings.ToUpper(s[:1]))
	if !t.Valid() {
		return "", fmt.Errorf("invalid trait code %q", raw)
	}
	return t, nil
}

// TraitScore holds one counter per trait.
type TraitScore struct {
	R int `json:"R" yaml:"R"`
	I int `json:"I" yaml:"I"`
	A int `json:"A" yaml:"A"`
	S int `json:"S" yaml:"S"`
	E int `json:"E" yaml:"E"`
	C int `json:"C" yaml:"C"`
}

// Get returns the counter for t.
func (s TraitScore) Get(t Trait) int {
	switch t {
	case TraitRealistic:
		return s.R
	case TraitInvestigative:
		return s.I
	case TraitArtistic:
		return s.A
	case TraitSocial:
		return s.S
	case TraitEnterprising:
		return s.E
	case TraitConventional:
		return s.C
	}
	return 0
}

// Add increments the counter for t by n. Unknown traits are ignored.
func (s *TraitScore) Add(t Trait, n int) {
	switch t {
	case TraitRealistic:
		s.R += n
	case TraitInvestigative:
		s.I += n
	case TraitArtistic:
		s.A += n
	case TraitSocial:
		s.S += n
	case TraitEnterprising:
		s.E += n
	case TraitConventional:
		s.C += n
	}
}

// Total returns the sum of all six counters.
func (s TraitScore) Total() int {
	return s.R + s.I + s.A + s.S + s.E + s.C
}

// Profile orders the traits by descending count. Equal counts are ordered
// by ascending letter so the result is stable for any input.
func (s TraitScore) Profile() TraitProfile {
	traits := make([]Trait, len(AllTraits))
	copy(traits, AllTraits)

	sort.Slice(traits, func(i, j int) bool {
		ci, cj := s.Get(traits[i]), s.Get(traits[j])
		if ci != cj {
			return ci > cj
		}
		return traits[i] < traits[j]
	})

	var b strings.Builder
	for _, t := range traits {
		b.WriteString(string(t))
	}
	return TraitProfile(b.String())
}

// TraitProfile is a permutation of the six trait letters, strongest first.
type TraitProfile string

// Validate ensures the profile contains each trait letter exactly once.
func (p TraitProfile) Validate() error {
	if len(p) != ProfileLength {
		return fmt.Errorf("profile must contain exactly %d letters, got %q", ProfileLength, string(p))
	}
	seen := make(map[Trait]bool, ProfileLength)
	for _, r := range string(p) {
		t := Trait(string(r))
		if !t.Valid() {
			return fmt.Errorf("profile may only contain R, I, A, S, E, C: %q", string(p))
		}
		if seen[t] {
			return fmt.Errorf("profile repeats letter %s: %q", t, string(p))
		}
		seen[t] = true
	}
	return nil
}

// Letters returns the profile as a slice of traits.
func (p TraitProfile) Letters() []Trait {
	letters := make([]Trait, 0, len(p))
	for _, r := range string(p) {
		letters = append(letters, Trait(string(r)))
	}
	return letters
}
