package quiz

import (
	"fmt"
	"strings"

	"github.com/Veraticus/majorfit/internal/model"
)

// Ranking limits.
const (
	RecommendationLimit = 10
	DefaultPreviewLimit = 15
	MaxPreviewLimit     = 20
)

// profileWeights maps each trait of the profile to 1/(p+1) for its first
// position p. Positions past ProfileLength weigh nothing.
func profileWeights(profile []model.Trait) map[model.Trait]float64 {
	weights := make(map[model.Trait]float64, model.ProfileLength)
	for p, t := range profile {
		if p >= model.ProfileLength {
			break
		}
		if _, seen := weights[t]; seen {
			continue
		}
		weights[t] = 1 / float64(p+1)
	}
	return weights
}

// ScoreCandidate sums the profile weights of the candidate's traits. A
// candidate without traits scores 0.
func ScoreCandidate(weights map[model.Trait]float64, c model.Candidate) float64 {
	var score float64
	for _, t := range c.Traits {
		score += weights[t]
	}
	return score
}

// Rank scores every candidate against the profile and returns the n best,
// ranked 1..n. Equal scores are ordered by candidate name.
func Rank(profile []model.Trait, candidates []model.Candidate, n int) model.Recommendations {
	weights := profileWeights(profile)

	recs := make(model.Recommendations, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, model.Recommendation{
			Candidate: c.Name,
			Score:     ScoreCandidate(weights, c),
		})
	}

	return recs.TopN(n)
}

// NormalizeProfile turns free-form input such as "ria-sec" into trait
// letters: upper-cased, non-RIASEC characters dropped, at most six kept.
func NormalizeProfile(raw string) ([]model.Trait, error) {
	letters := make([]model.Trait, 0, model.ProfileLength)
	for _, r := range strings.ToUpper(raw) {
		t := model.Trait(string(r))
		if !t.Valid() {
			continue
		}
		letters = append(letters, t)
		if len(letters) == model.ProfileLength {
			break
		}
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("%w: %q contains no R, I, A, S, E, C letters", ErrInvalidProfile, raw)
	}
	return letters, nil
}

// ClampPreviewLimit applies the preview default and upper bounds.
func ClampPreviewLimit(limit, catalogSize int) int {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	if limit > MaxPreviewLimit {
		limit = MaxPreviewLimit
	}
	if limit > catalogSize {
		limit = catalogSize
	}
	return limit
}

// Preview ranks candidates for an arbitrary profile without touching the
// store.
func Preview(rawProfile string, candidates []model.Candidate, limit int) (model.Recommendations, error) {
	profile, err := NormalizeProfile(rawProfile)
	if err != nil {
		return nil, err
	}
	return Rank(profile, candidates, ClampPreviewLimit(limit, len(candidates))), nil
}
