package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/model"
)

// HasRecommendations reports whether any ranked candidates are stored for
// the identity.
func (s *SQLiteStorage) HasRecommendations(ctx context.Context, identity string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return false, err
	}
	return s.hasRecommendationsTx(ctx, s.db, identity)
}

func (s *SQLiteStorage) hasRecommendationsTx(ctx context.Context, q queryable, identity string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_major_recommendations WHERE user_id = ?)
	`, identity).Scan(&exists)
	if err != nil {
		return false, wrapStoreError(fmt.Errorf("failed to check recommendations: %w", err))
	}
	return exists, nil
}

// GetRecommendations returns the stored recommendations ordered by rank.
func (s *SQLiteStorage) GetRecommendations(ctx context.Context, identity string) (model.Recommendations, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return s.getRecommendationsTx(ctx, s.db, identity)
}

func (s *SQLiteStorage) getRecommendationsTx(ctx context.Context, q queryable, identity string) (model.Recommendations, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id, major_name, recommendation_rank, recommendation_score, created_at
		FROM user_major_recommendations
		WHERE user_id = ?
		ORDER BY recommendation_rank
	`, identity)
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to query recommendations: %w", err))
	}
	defer func() { _ = rows.Close() }()

	recs := model.Recommendations{}
	for rows.Next() {
		var rec model.Recommendation
		if err := rows.Scan(&rec.Identity, &rec.Candidate, &rec.Rank, &rec.Score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// ReplaceRecommendations discards the stored recommendations of the identity
// and writes the given ranked set.
func (s *SQLiteStorage) ReplaceRecommendations(ctx context.Context, identity string, recs model.Recommendations) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateRecommendations(recs); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.replaceRecommendationsTx(ctx, tx, identity, recs)
	})
}

func (s *SQLiteStorage) replaceRecommendationsTx(ctx context.Context, q queryable, identity string, recs model.Recommendations) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM user_major_recommendations WHERE user_id = ?`, identity); err != nil {
		return wrapStoreError(fmt.Errorf("failed to clear recommendations: %w", err))
	}

	for _, rec := range recs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO user_major_recommendations (
				user_id, major_name, recommendation_rank, recommendation_score
			) VALUES (?, ?, ?, ?)
		`, identity, rec.Candidate, rec.Rank, rec.Score)
		if err != nil {
			return wrapStoreError(fmt.Errorf("failed to insert recommendation %q: %w", rec.Candidate, err))
		}
	}

	return nil
}

// EnsureRecommendation appends the candidate at the next free rank unless it
// is already recommended to the identity.
func (s *SQLiteStorage) EnsureRecommendation(ctx context.Context, identity, candidate string, score float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateString(candidate, "candidate"); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.ensureRecommendationTx(ctx, tx, identity, candidate, score)
	})
}

func (s *SQLiteStorage) ensureRecommendationTx(ctx context.Context, q queryable, identity, candidate string, score float64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_major_recommendations (
			user_id, major_name, recommendation_rank, recommendation_score
		)
		SELECT ?, ?, COALESCE(MAX(recommendation_rank), 0) + 1, ?
		FROM user_major_recommendations
		WHERE user_id = ?
		ON CONFLICT(user_id, major_name) DO NOTHING
	`, identity, candidate, score, identity)
	if err != nil {
		return wrapStoreError(fmt.Errorf("failed to ensure recommendation %q: %w", candidate, err))
	}
	return nil
}

// RaiseRecommendationScore lifts the stored score of a recommendation to at
// least floor. Scores are never lowered.
func (s *SQLiteStorage) RaiseRecommendationScore(ctx context.Context, identity, candidate string, floor float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateString(candidate, "candidate"); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.raiseRecommendationScoreTx(ctx, tx, identity, candidate, floor)
	})
}

func (s *SQLiteStorage) raiseRecommendationScoreTx(ctx context.Context, q queryable, identity, candidate string, floor float64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE user_major_recommendations
		SET recommendation_score = MAX(recommendation_score, ?)
		WHERE user_id = ? AND major_name = ?
	`, floor, identity, candidate)
	if err != nil {
		return wrapStoreError(fmt.Errorf("failed to raise recommendation score: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recommendation %q for %q: %w", candidate, identity, common.ErrNotFound)
	}
	return nil
}
