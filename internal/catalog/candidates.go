package catalog

import (
	"fmt"
	"strings"

	"github.com/Veraticus/majorfit/internal/model"
)

// Candidates is the ordered, immutable list of recommendable majors.
type Candidates struct {
	byName     map[string]int
	candidates []model.Candidate
}

// NewCandidates validates and normalizes a candidate list. Names are trimmed
// and must be unique. Trait letters keep their first occurrence only and are
// truncated to model.MaxCandidateTraits; invalid letters are dropped.
func NewCandidates(entries []model.Candidate) (*Candidates, error) {
	c := &Candidates{
		candidates: make([]model.Candidate, 0, len(entries)),
		byName:     make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("candidate at index %d has no name", i)
		}
		if _, dup := c.byName[name]; dup {
			return nil, fmt.Errorf("duplicate candidate %q", name)
		}

		c.byName[name] = len(c.candidates)
		c.candidates = append(c.candidates, model.Candidate{
			Name:   name,
			Traits: normalizeTraits(entry.Traits),
		})
	}

	return c, nil
}

func normalizeTraits(raw []model.Trait) []model.Trait {
	traits := make([]model.Trait, 0, len(raw))
	seen := make(map[model.Trait]bool, len(raw))
	for _, r := range raw {
		t, err := model.ParseTrait(string(r))
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true
		traits = append(traits, t)
		if len(traits) == model.MaxCandidateTraits {
			break
		}
	}
	return traits
}

// ParseCode splits a compact code such as "RIC" into trait letters.
func ParseCode(code string) []model.Trait {
	traits := make([]model.Trait, 0, len(code))
	for _, r := range code {
		traits = append(traits, model.Trait(string(r)))
	}
	return normalizeTraits(traits)
}

// All returns a deep copy of the candidates in catalog order.
func (c *Candidates) All() []model.Candidate {
	out := make([]model.Candidate, len(c.candidates))
	for i, cand := range c.candidates {
		traits := make([]model.Trait, len(cand.Traits))
		copy(traits, cand.Traits)
		out[i] = model.Candidate{Name: cand.Name, Traits: traits}
	}
	return out
}

// Len returns the number of candidates.
func (c *Candidates) Len() int {
	return len(c.candidates)
}

// Lookup returns the named candidate.
func (c *Candidates) Lookup(name string) (model.Candidate, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return model.Candidate{}, false
	}
	cand := c.candidates[idx]
	traits := make([]model.Trait, len(cand.Traits))
	copy(traits, cand.Traits)
	return model.Candidate{Name: cand.Name, Traits: traits}, true
}
