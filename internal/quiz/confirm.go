package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/service"
)

// Satisfaction rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Confirm locks in one of the identity's recommended candidates together
// with a satisfaction rating. It succeeds at most once per identity.
func (s *Service) Confirm(ctx context.Context, identity, candidate string, rating int) (*model.Outcome, error) {
	identity = strings.TrimSpace(identity)
	candidate = strings.TrimSpace(candidate)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	if candidate == "" {
		return nil, fmt.Errorf("%w: candidate name is required", ErrCandidateNotRecommended)
	}
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}

	outcome := model.Outcome{
		Identity:     identity,
		Candidate:    candidate,
		Satisfaction: rating,
	}

	err := s.inTx(ctx, "confirm", func(tx service.Transaction) error {
		return s.confirmTx(ctx, tx, outcome)
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("Outcome confirmed", common.Fields{
		"identity":  identity,
		"candidate": candidate,
		"rating":    rating,
	})
	return &outcome, nil
}

func (s *Service) confirmTx(ctx context.Context, tx service.Transaction, outcome model.Outcome) error {
	assessment, err := tx.GetAssessment(ctx, outcome.Identity)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, outcome.Identity)
	}
	if err != nil {
		return fmt.Errorf("failed to load assessment: %w", err)
	}

	if assessment.Confirmed() {
		if assessment.ChosenCandidate == outcome.Candidate {
			return fmt.Errorf("%w: %s", ErrAlreadyConfirmedSame, outcome.Candidate)
		}
		return fmt.Errorf("%w: %s already chose %s", ErrConfirmationImmutable, outcome.Identity, assessment.ChosenCandidate)
	}

	recs, err := tx.GetRecommendations(ctx, outcome.Identity)
	if err != nil {
		return fmt.Errorf("failed to load recommendations: %w", err)
	}
	rec := recs.Find(outcome.Candidate)
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrCandidateNotRecommended, outcome.Candidate)
	}

	if err := tx.SaveOutcome(ctx, outcome); err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}

	rating := float64(outcome.Satisfaction)
	if err := tx.EnsureRecommendation(ctx, outcome.Identity, outcome.Candidate, rating); err != nil {
		return fmt.Errorf("failed to ensure recommendation: %w", err)
	}
	if err := tx.RaiseRecommendationScore(ctx, outcome.Identity, outcome.Candidate, rating); err != nil {
		return fmt.Errorf("failed to raise recommendation score: %w", err)
	}

	return nil
}
