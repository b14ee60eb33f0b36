package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/service"
)

const assessmentColumns = `
	user_id, first_name, last_name, gender, education_level,
	favorite_subject_1, favorite_subject_2,
	r_score, i_score, a_score, s_score, e_score, c_score,
	riasec_profile, chosen_major, satisfaction_score, created_at`

// GetAssessment retrieves the assessment record of an identity.
func (s *SQLiteStorage) GetAssessment(ctx context.Context, identity string) (*model.Assessment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return s.getAssessmentTx(ctx, s.db, identity)
}

func (s *SQLiteStorage) getAssessmentTx(ctx context.Context, q queryable, identity string) (*model.Assessment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE user_id = ?`, identity)

	assessment, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %q: %w", identity, common.ErrNotFound)
	}
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to get assessment: %w", err))
	}

	return assessment, nil
}

// CreateAssessment inserts a new assessment record.
func (s *SQLiteStorage) CreateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAssessment(assessment); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.createAssessmentTx(ctx, tx, assessment)
	})
}

func (s *SQLiteStorage) createAssessmentTx(ctx context.Context, q queryable, a *model.Assessment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO assessments (
			user_id, first_name, last_name, gender, education_level,
			favorite_subject_1, favorite_subject_2,
			r_score, i_score, a_score, s_score, e_score, c_score,
			riasec_profile
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.Identity,
		a.Demographics.FirstName,
		a.Demographics.LastName,
		nullString(a.Demographics.Gender),
		nullString(a.Demographics.EducationLevel),
		nullString(a.Demographics.FavoriteSubject1),
		nullString(a.Demographics.FavoriteSubject2),
		a.Score.R, a.Score.I, a.Score.A, a.Score.S, a.Score.E, a.Score.C,
		nullString(string(a.Profile)),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("assessment %q: %w", a.Identity, common.ErrDuplicateEntry)
		}
		return wrapStoreError(fmt.Errorf("failed to create assessment: %w", err))
	}
	return nil
}

// UpdateAssessment stores the demographics, score and profile of an
// assessment. The outcome columns are only written by SaveOutcome.
func (s *SQLiteStorage) UpdateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAssessment(assessment); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateAssessmentTx(ctx, tx, assessment)
	})
}

func (s *SQLiteStorage) updateAssessmentTx(ctx context.Context, q queryable, a *model.Assessment) error {
	result, err := q.ExecContext(ctx, `
		UPDATE assessments SET
			first_name = ?,
			last_name = ?,
			gender = ?,
			education_level = ?,
			favorite_subject_1 = ?,
			favorite_subject_2 = ?,
			r_score = ?,
			i_score = ?,
			a_score = ?,
			s_score = ?,
			e_score = ?,
			c_score = ?,
			riasec_profile = ?
		WHERE user_id = ?
	`,
		a.Demographics.FirstName,
		a.Demographics.LastName,
		nullString(a.Demographics.Gender),
		nullString(a.Demographics.EducationLevel),
		nullString(a.Demographics.FavoriteSubject1),
		nullString(a.Demographics.FavoriteSubject2),
		a.Score.R, a.Score.I, a.Score.A, a.Score.S, a.Score.E, a.Score.C,
		nullString(string(a.Profile)),
		a.Identity,
	)
	if err != nil {
		return wrapStoreError(fmt.Errorf("failed to update assessment: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("assessment %q: %w", a.Identity, common.ErrNotFound)
	}
	return nil
}

// SaveOutcome records the chosen candidate and satisfaction rating. The
// columns are write-once: a second call fails with common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveOutcome(ctx context.Context, outcome model.Outcome) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOutcome(outcome); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveOutcomeTx(ctx, tx, outcome)
	})
}

func (s *SQLiteStorage) saveOutcomeTx(ctx context.Context, q queryable, outcome model.Outcome) error {
	result, err := q.ExecContext(ctx, `
		UPDATE assessments
		SET chosen_major = ?, satisfaction_score = ?
		WHERE user_id = ? AND chosen_major IS NULL
	`, outcome.Candidate, outcome.Satisfaction, outcome.Identity)
	if err != nil {
		return wrapStoreError(fmt.Errorf("failed to save outcome: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM assessments WHERE user_id = ?)
	`, outcome.Identity).Scan(&exists); err != nil {
		return wrapStoreError(fmt.Errorf("failed to check assessment existence: %w", err))
	}
	if !exists {
		return fmt.Errorf("assessment %q: %w", outcome.Identity, common.ErrNotFound)
	}
	return fmt.Errorf("outcome for %q already recorded: %w", outcome.Identity, common.ErrDuplicateEntry)
}

// ListAssessments returns assessment records, newest first.
func (s *SQLiteStorage) ListAssessments(ctx context.Context, filter service.AssessmentFilter) ([]model.Assessment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listAssessmentsTx(ctx, s.db, normalizeFilter(filter))
}

func (s *SQLiteStorage) listAssessmentsTx(ctx context.Context, q queryable, filter service.AssessmentFilter) ([]model.Assessment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		ORDER BY created_at DESC, user_id ASC
		LIMIT ? OFFSET ?
	`, filter.Limit, filter.Offset)
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to query assessments: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var assessments []model.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, *a)
	}

	return assessments, rows.Err()
}

// CountAssessments returns the number of assessment records.
func (s *SQLiteStorage) CountAssessments(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countAssessmentsTx(ctx, s.db)
}

func (s *SQLiteStorage) countAssessmentsTx(ctx context.Context, q queryable) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&count); err != nil {
		return 0, wrapStoreError(fmt.Errorf("failed to count assessments: %w", err))
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*model.Assessment, error) {
	var (
		a                                  model.Assessment
		gender, education, subject1, subj2 sql.NullString
		profile, chosen                    sql.NullString
		satisfaction                       sql.NullInt64
	)

	err := row.Scan(
		&a.Identity,
		&a.Demographics.FirstName,
		&a.Demographics.LastName,
		&gender,
		&education,
		&subject1,
		&subj2,
		&a.Score.R, &a.Score.I, &a.Score.A, &a.Score.S, &a.Score.E, &a.Score.C,
		&profile,
		&chosen,
		&satisfaction,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Demographics.Gender = gender.String
	a.Demographics.EducationLevel = education.String
	a.Demographics.FavoriteSubject1 = subject1.String
	a.Demographics.FavoriteSubject2 = subj2.String
	a.Profile = model.TraitProfile(profile.String)
	a.ChosenCandidate = chosen.String
	a.Satisfaction = int(satisfaction.Int64)

	return &a, nil
}
