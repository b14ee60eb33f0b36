package model

import (
	"fmt"
	"strings"
	"time"
)

// MaxElapsedSeconds caps the recorded answer time of a single item.
const MaxElapsedSeconds = 600

// Response is the stored answer of one identity to one item.
type Response struct {
	CreatedAt      time.Time             `json:"created_at" yaml:"created_at"`
	ID             string                `json:"response_id" yaml:"response_id"`
	Identity       string                `json:"user_id" yaml:"user_id"`
	ItemKey        string                `json:"question_id" yaml:"question_id"`
	ChosenTrait    Trait                 `json:"chosen_code" yaml:"chosen_code"`
	Options        [OptionsPerItem]Trait `json:"options" yaml:"options"`
	ElapsedSeconds float64               `json:"response_time_sec" yaml:"response_time_sec"`
	ChosenPosition int                   `json:"chosen_position" yaml:"chosen_position"`
}

// ResponseID builds the deterministic row id for an identity and item.
func ResponseID(identity, itemKey string) string {
	return identity + "_" + itemKey
}

// Validate checks the internal consistency of the response.
func (r *Response) Validate() error {
	if strings.TrimSpace(r.Identity) == "" {
		return fmt.Errorf("identity is required")
	}
	if strings.TrimSpace(r.ItemKey) == "" {
		return fmt.Errorf("item key is required")
	}
	seen := make(map[Trait]bool, OptionsPerItem)
	for _, t := range r.Options {
		if !t.Valid() {
			return fmt.Errorf("options may only contain R, I, A, S, E, C letters")
		}
		if seen[t] {
			return fmt.Errorf("options must contain %d distinct letters", OptionsPerItem)
		}
		seen[t] = true
	}
	if r.ChosenPosition < 1 || r.ChosenPosition > OptionsPerItem {
		return fmt.Errorf("chosen position must be between 1 and %d, got %d", OptionsPerItem, r.ChosenPosition)
	}
	if !seen[r.ChosenTrait] {
		return fmt.Errorf("chosen trait %q is not one of the options", r.ChosenTrait)
	}
	if r.Options[r.ChosenPosition-1] != r.ChosenTrait {
		return fmt.Errorf("chosen position %d does not match chosen trait %s", r.ChosenPosition, r.ChosenTrait)
	}
	if r.ElapsedSeconds < 0 || r.ElapsedSeconds > MaxElapsedSeconds {
		return fmt.Errorf("elapsed seconds must be between 0 and %d, got %.2f", MaxElapsedSeconds, r.ElapsedSeconds)
	}
	return nil
}

// FormatOptions joins option traits as stored in the database ("R,I,A").
func FormatOptions(options [OptionsPerItem]Trait) string {
	parts := make([]string, OptionsPerItem)
	for i, t := range options {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// ParseOptions is the inverse of FormatOptions.
func ParseOptions(raw string) ([OptionsPerItem]Trait, error) {
	var options [OptionsPerItem]Trait
	parts := strings.Split(raw, ",")
	if len(parts) != OptionsPerItem {
		return options, fmt.Errorf("options must have exactly %d comma-separated letters, got %q", OptionsPerItem, raw)
	}
	for i, part := range parts {
		t, err := ParseTrait(part)
		if err != nil {
			return options, err
		}
		options[i] = t
	}
	return options, nil
}
