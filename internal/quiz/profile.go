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

// Profile returns the read-only summary of an identity. It does not wait
// for the write queue.
func (s *Service) Profile(ctx context.Context, identity string) (*model.ProfileView, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	assessment, err := s.store.GetAssessment(ctx, identity)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrIdentityNotFound, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	recs, err := s.store.GetRecommendations(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}

	view := &model.ProfileView{
		Identity:        identity,
		Score:           assessment.Score,
		Profile:         assessment.Profile,
		Recommendations: recs,
		Completed:       len(recs) > 0,
	}
	if assessment.Confirmed() {
		chosen := assessment.ChosenCandidate
		rating := assessment.Satisfaction
		view.ChosenCandidate = &chosen
		view.Satisfaction = &rating
	}

	return view, nil
}

// Responses returns the stored answers of an identity ordered by item.
func (s *Service) Responses(ctx context.Context, identity string) ([]model.Response, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	return s.store.GetResponses(ctx, identity)
}

// AssessmentPage is one page of assessment records plus the overall count.
type AssessmentPage struct {
	Assessments []model.Assessment `json:"assessments" yaml:"assessments"`
	Total       int                `json:"total" yaml:"total"`
}

// ListAssessments returns assessment records newest first.
func (s *Service) ListAssessments(ctx context.Context, filter service.AssessmentFilter) (*AssessmentPage, error) {
	assessments, err := s.store.ListAssessments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	total, err := s.store.CountAssessments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}
	return &AssessmentPage{Assessments: assessments, Total: total}, nil
}
