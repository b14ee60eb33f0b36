package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/majorfit/internal/model"
)

// ReplaceResponses discards any stored answers of the identity and writes
// the given set. It returns the number of rows written.
func (s *SQLiteStorage) ReplaceResponses(ctx context.Context, identity string, responses []model.Response) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return 0, err
	}
	if err := validateResponses(identity, responses); err != nil {
		return 0, err
	}

	var inserted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		inserted, txErr = s.replaceResponsesTx(ctx, tx, identity, responses)
		return txErr
	})
	return inserted, err
}

func (s *SQLiteStorage) replaceResponsesTx(ctx context.Context, q queryable, identity string, responses []model.Response) (int, error) {
	if _, err := q.ExecContext(ctx, `DELETE FROM user_item_responses WHERE user_id = ?`, identity); err != nil {
		return 0, wrapStoreError(fmt.Errorf("failed to clear responses: %w", err))
	}

	inserted := 0
	for _, r := range responses {
		id := r.ID
		if id == "" {
			id = model.ResponseID(identity, r.ItemKey)
		}

		result, err := q.ExecContext(ctx, `
			INSERT INTO user_item_responses (
				response_id, user_id, question_id, options,
				chosen_code, chosen_position, response_time_sec
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			identity,
			r.ItemKey,
			model.FormatOptions(r.Options),
			string(r.ChosenTrait),
			r.ChosenPosition,
			r.ElapsedSeconds,
		)
		if err != nil {
			return 0, wrapStoreError(fmt.Errorf("failed to insert response %s: %w", r.ItemKey, err))
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(affected)
	}

	slog.Debug("Replaced responses",
		"identity", identity,
		"count", inserted)

	return inserted, nil
}

// GetResponses returns the stored answers of an identity ordered by item.
func (s *SQLiteStorage) GetResponses(ctx context.Context, identity string) ([]model.Response, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return s.getResponsesTx(ctx, s.db, identity)
}

func (s *SQLiteStorage) getResponsesTx(ctx context.Context, q queryable, identity string) ([]model.Response, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT response_id, user_id, question_id, options,
		       chosen_code, chosen_position, response_time_sec, created_at
		FROM user_item_responses
		WHERE user_id = ?
		ORDER BY question_id
	`, identity)
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to query responses: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var responses []model.Response
	for rows.Next() {
		var (
			r       model.Response
			options string
			chosen  string
		)
		if err := rows.Scan(
			&r.ID,
			&r.Identity,
			&r.ItemKey,
			&options,
			&chosen,
			&r.ChosenPosition,
			&r.ElapsedSeconds,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}

		r.Options, err = model.ParseOptions(options)
		if err != nil {
			return nil, fmt.Errorf("response %s: %w", r.ID, err)
		}
		r.ChosenTrait = model.Trait(chosen)

		responses = append(responses, r)
	}

	return responses, rows.Err()
}

// CountChosenTraits tallies how often each trait letter was chosen by the
// identity. Letters outside R, I, A, S, E, C are ignored.
func (s *SQLiteStorage) CountChosenTraits(ctx context.Context, identity string) (map[model.Trait]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return s.countChosenTraitsTx(ctx, s.db, identity)
}

func (s *SQLiteStorage) countChosenTraitsTx(ctx context.Context, q queryable, identity string) (map[model.Trait]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT chosen_code, COUNT(*)
		FROM user_item_responses
		WHERE user_id = ?
		GROUP BY chosen_code
	`, identity)
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to count chosen traits: %w", err))
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.Trait]int, len(model.AllTraits))
	for rows.Next() {
		var (
			code  string
			count int
		)
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("failed to scan trait count: %w", err)
		}

		trait := model.Trait(code)
		if !trait.Valid() {
			continue
		}
		counts[trait] += count
	}

	return counts, rows.Err()
}
