package model

import (
	"testing"
)

func TestTraitScore_Profile(t *testing.T) {
	tests := []struct {
		name  string
		want  TraitProfile
		score TraitScore
	}{
		{
			name:  "all realistic orders the rest alphabetically",
			score: TraitScore{R: 30},
			want:  "RACEIS",
		},
		{
			name:  "strict ordering",
			score: TraitScore{R: 1, I: 2, A: 3, S: 4, E: 5, C: 15},
			want:  "CESAIR",
		},
		{
			name:  "all equal",
			score: TraitScore{R: 5, I: 5, A: 5, S: 5, E: 5, C: 5},
			want:  "ACEIRS",
		},
		{
			name:  "partial ties",
			score: TraitScore{R: 8, I: 8, A: 4, S: 4, E: 3, C: 3},
			want:  "IRASCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.score.Profile()
			if got != tt.want {
				t.Errorf("Profile() = %q, want %q", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Profile() produced invalid profile: %v", err)
			}
			// Deriving twice must give the same answer
			if again := tt.score.Profile(); again != got {
				t.Errorf("Profile() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestTraitScore_AddAndTotal(t *testing.T) {
	var score TraitScore
	for _, trait := range AllTraits {
		score.Add(trait, 5)
	}
	score.Add(Trait("X"), 100)

	if score.Total() != 30 {
		t.Errorf("Total() = %d, want 30", score.Total())
	}
	for _, trait := range AllTraits {
		if score.Get(trait) != 5 {
			t.Errorf("Get(%s) = %d, want 5", trait, score.Get(trait))
		}
	}
}

func TestTraitProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile TraitProfile
		wantErr bool
	}{
		{name: "canonical", profile: "RIASEC"},
		{name: "permutation", profile: "CESAIR"},
		{name: "too short", profile: "RIA", wantErr: true},
		{name: "repeated letter", profile: "RRASEC", wantErr: true},
		{name: "foreign letter", profile: "RIASEX", wantErr: true},
		{name: "lower case", profile: "riasec", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTrait(t *testing.T) {
	tests := []struct {
		raw     string
		want    Trait
		wantErr bool
	}{
		{raw: "R", want: TraitRealistic},
		{raw: " c ", want: TraitConventional},
		{raw: "social", want: TraitSocial},
		{raw: "", wantErr: true},
		{raw: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTrait(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTrait(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTrait(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseOptions_RoundTrip(t *testing.T) {
	options, err := ParseOptions("R,I,A")
	if err != nil {
		t.Fatalf("ParseOptions() error = %v", err)
	}
	if FormatOptions(options) != "R,I,A" {
		t.Errorf("FormatOptions() = %q, want %q", FormatOptions(options), "R,I,A")
	}

	if _, err := ParseOptions("R,I"); err == nil {
		t.Error("ParseOptions() expected error for two options")
	}
}
