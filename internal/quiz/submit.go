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

// SubmitResult is the finalized assessment and its stored responses.
type SubmitResult struct {
	Assessment      *model.Assessment     `json:"assessment" yaml:"assessment"`
	Responses       []model.Response      `json:"responses" yaml:"responses"`
	Recommendations model.Recommendations `json:"recommendations" yaml:"recommendations"`
}

// Submit records a complete answer set for an identity, derives its trait
// profile and stores the top recommendations. An identity that already has
// recommendations is rejected with ErrAlreadyCompleted and nothing is
// written.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	identity := strings.TrimSpace(req.Identity)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	req.Identity = identity

	var result *SubmitResult
	err := s.inTx(ctx, "submit", func(tx service.Transaction) error {
		var err error
		result, err = s.submitTx(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("Assessment submitted", common.Fields{
		"identity": identity,
		"profile":  string(result.Assessment.Profile),
		"top":      len(result.Recommendations),
	})
	return result, nil
}

func (s *Service) submitTx(ctx context.Context, tx service.Transaction, req SubmitRequest) (*SubmitResult, error) {
	identity := req.Identity

	completed, err := tx.HasRecommendations(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}
	if completed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, identity)
	}

	assessment, err := s.getOrCreateAssessment(ctx, tx, identity)
	if err != nil {
		return nil, err
	}

	submission, err := ValidateSubmission(req, s.items)
	if err != nil {
		return nil, err
	}
	if submission.Defaulted > 0 {
		common.LogDebug("Skipped items scored at first option", common.Fields{
			"identity":  identity,
			"defaulted": submission.Defaulted,
		})
	}

	inserted, err := tx.ReplaceResponses(ctx, identity, submission.Responses)
	if err != nil {
		return nil, fmt.Errorf("failed to store responses: %w", err)
	}
	if inserted != s.items.Len() {
		return nil, fmt.Errorf("%w: stored %d of %d", ErrResponseCountMismatch, inserted, s.items.Len())
	}

	counts, err := tx.CountChosenTraits(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to count traits: %w", err)
	}
	score, profile, err := AggregateScore(counts, s.items.Len())
	if err != nil {
		return nil, err
	}

	recs := Rank(profile.Letters(), s.candidates.All(), RecommendationLimit)
	for i := range recs {
		recs[i].Score = roundTo2(recs[i].Score)
	}

	assessment.Score = score
	assessment.Profile = profile
	if submission.HasMetadata {
		assessment.Demographics = submission.Demographics
	}
	if err := tx.UpdateAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}

	if err := tx.ReplaceRecommendations(ctx, identity, recs); err != nil {
		return nil, fmt.Errorf("failed to store recommendations: %w", err)
	}

	final, err := tx.GetAssessment(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to reload assessment: %w", err)
	}
	responses, err := tx.GetResponses(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to reload responses: %w", err)
	}
	stored, err := tx.GetRecommendations(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to reload recommendations: %w", err)
	}

	return &SubmitResult{
		Assessment:      final,
		Responses:       responses,
		Recommendations: stored,
	}, nil
}

func (s *Service) getOrCreateAssessment(ctx context.Context, tx service.Transaction, identity string) (*model.Assessment, error) {
	assessment, err := tx.GetAssessment(ctx, identity)
	if err == nil {
		return assessment, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	assessment = &model.Assessment{
		Identity: identity,
		Demographics: model.Demographics{
			FirstName: DefaultFirstName,
			LastName:  DefaultLastName,
		},
	}
	if err := tx.CreateAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return assessment, nil
}
