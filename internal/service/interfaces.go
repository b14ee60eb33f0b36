// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/majorfit/internal/model"
)

// AssessmentFilter defines paging options for assessment listings.
type AssessmentFilter struct {
	Limit  int
	Offset int
}

// Store holds the persistence operations available both on the database
// handle and inside a transaction.
type Store interface {
	// Assessment operations
	GetAssessment(ctx context.Context, identity string) (*model.Assessment, error)
	CreateAssessment(ctx context.Context, assessment *model.Assessment) error
	UpdateAssessment(ctx context.Context, assessment *model.Assessment) error
	SaveOutcome(ctx context.Context, outcome model.Outcome) error
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.Assessment, error)
	CountAssessments(ctx context.Context) (int, error)

	// Response operations
	ReplaceResponses(ctx context.Context, identity string, responses []model.Response) (int, error)
	GetResponses(ctx context.Context, identity string) ([]model.Response, error)
	CountChosenTraits(ctx context.Context, identity string) (map[model.Trait]int, error)

	// Recommendation operations
	HasRecommendations(ctx context.Context, identity string) (bool, error)
	GetRecommendations(ctx context.Context, identity string) (model.Recommendations, error)
	ReplaceRecommendations(ctx context.Context, identity string, recs model.Recommendations) error
	EnsureRecommendation(ctx context.Context, identity, candidate string, score float64) error
	RaiseRecommendationScore(ctx context.Context, identity, candidate string, floor float64) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	Store

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Store
	Commit() error
	Rollback() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
