package quiz

import (
	"fmt"

	"github.com/Veraticus/majorfit/internal/model"
)

// AggregateScore builds the trait score from per-trait counts of persisted
// responses and derives the profile. The counts must cover exactly
// itemCount responses.
func AggregateScore(counts map[model.Trait]int, itemCount int) (model.TraitScore, model.TraitProfile, error) {
	var score model.TraitScore
	for trait, n := range counts {
		if !trait.Valid() {
			continue
		}
		score.Add(trait, n)
	}

	if total := score.Total(); total != itemCount {
		return score, "", fmt.Errorf("%w: trait counts sum to %d, want %d", ErrScoreInvariantViolation, total, itemCount)
	}

	return score, score.Profile(), nil
}
