// Package storage provides the data persistence layer for the majorfit application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/service"
)

// Listing bounds.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrEmptySlice            = errors.New("slice cannot be empty")
	ErrInvalidAssessment     = errors.New("invalid assessment")
	ErrInvalidOutcome        = errors.New("invalid outcome")
	ErrInvalidResponse       = errors.New("invalid response")
	ErrInvalidRecommendation = errors.New("invalid recommendation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAssessment validates an assessment record before it is written.
func validateAssessment(a *model.Assessment) error {
	if a == nil {
		return fmt.Errorf("%w: assessment", ErrNilParameter)
	}
	if strings.TrimSpace(a.Identity) == "" {
		return fmt.Errorf("%w: missing identity", ErrInvalidAssessment)
	}
	if a.Demographics.FirstName == "" || a.Demographics.LastName == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAssessment)
	}
	for _, trait := range model.AllTraits {
		if a.Score.Get(trait) < 0 {
			return fmt.Errorf("%w: negative %s score", ErrInvalidAssessment, trait)
		}
	}
	if a.Profile != "" {
		if err := a.Profile.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAssessment, err)
		}
	}
	return nil
}

// validateOutcome validates a confirmed outcome.
func validateOutcome(o model.Outcome) error {
	if strings.TrimSpace(o.Identity) == "" {
		return fmt.Errorf("%w: missing identity", ErrInvalidOutcome)
	}
	if strings.TrimSpace(o.Candidate) == "" {
		return fmt.Errorf("%w: missing candidate", ErrInvalidOutcome)
	}
	if o.Satisfaction < 1 || o.Satisfaction > 5 {
		return fmt.Errorf("%w: satisfaction must be between 1 and 5, got %d", ErrInvalidOutcome, o.Satisfaction)
	}
	return nil
}

// validateResponses validates the answer set of one identity.
func validateResponses(identity string, responses []model.Response) error {
	if responses == nil {
		return fmt.Errorf("%w: responses", ErrNilParameter)
	}
	if len(responses) == 0 {
		return fmt.Errorf("%w: responses", ErrEmptySlice)
	}

	seen := make(map[string]bool, len(responses))
	for i := range responses {
		r := &responses[i]
		if r.Identity != identity {
			return fmt.Errorf("%w: response at index %d belongs to %q", ErrInvalidResponse, i, r.Identity)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: response at index %d: %w", ErrInvalidResponse, i, err)
		}
		if seen[r.ItemKey] {
			return fmt.Errorf("%w: duplicate item %s", ErrInvalidResponse, r.ItemKey)
		}
		seen[r.ItemKey] = true
	}
	return nil
}

// validateRecommendations validates a ranked recommendation set.
func validateRecommendations(recs model.Recommendations) error {
	if recs == nil {
		return fmt.Errorf("%w: recommendations", ErrNilParameter)
	}
	if err := recs.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecommendation, err)
	}
	return nil
}

// normalizeFilter clamps paging options into the supported range.
func normalizeFilter(filter service.AssessmentFilter) service.AssessmentFilter {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
