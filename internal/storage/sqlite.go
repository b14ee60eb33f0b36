package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/model"
	"github.com/Veraticus/majorfit/internal/service"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// _txlock=immediate takes the write lock at BEGIN so a transaction never
	// has to upgrade a read lock halfway through.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file the storage was opened with.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreError(fmt.Errorf("failed to begin transaction: %w", err))
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return wrapStoreError(t.tx.Commit())
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) GetAssessment(ctx context.Context, identity string) (*model.Assessment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return t.storage.getAssessmentTx(ctx, t.tx, identity)
}

func (t *sqliteTransaction) CreateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAssessment(assessment); err != nil {
		return err
	}
	return t.storage.createAssessmentTx(ctx, t.tx, assessment)
}

func (t *sqliteTransaction) UpdateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAssessment(assessment); err != nil {
		return err
	}
	return t.storage.updateAssessmentTx(ctx, t.tx, assessment)
}

func (t *sqliteTransaction) SaveOutcome(ctx context.Context, outcome model.Outcome) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateOutcome(outcome); err != nil {
		return err
	}
	return t.storage.saveOutcomeTx(ctx, t.tx, outcome)
}

func (t *sqliteTransaction) ListAssessments(ctx context.Context, filter service.AssessmentFilter) ([]model.Assessment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listAssessmentsTx(ctx, t.tx, normalizeFilter(filter))
}

func (t *sqliteTransaction) CountAssessments(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.storage.countAssessmentsTx(ctx, t.tx)
}

func (t *sqliteTransaction) ReplaceResponses(ctx context.Context, identity string, responses []model.Response) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return 0, err
	}
	if err := validateResponses(identity, responses); err != nil {
		return 0, err
	}
	return t.storage.replaceResponsesTx(ctx, t.tx, identity, responses)
}

func (t *sqliteTransaction) GetResponses(ctx context.Context, identity string) ([]model.Response, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return t.storage.getResponsesTx(ctx, t.tx, identity)
}

func (t *sqliteTransaction) CountChosenTraits(ctx context.Context, identity string) (map[model.Trait]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return t.storage.countChosenTraitsTx(ctx, t.tx, identity)
}

func (t *sqliteTransaction) HasRecommendations(ctx context.Context, identity string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return false, err
	}
	return t.storage.hasRecommendationsTx(ctx, t.tx, identity)
}

func (t *sqliteTransaction) GetRecommendations(ctx context.Context, identity string) (model.Recommendations, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}
	return t.storage.getRecommendationsTx(ctx, t.tx, identity)
}

func (t *sqliteTransaction) ReplaceRecommendations(ctx context.Context, identity string, recs model.Recommendations) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateRecommendations(recs); err != nil {
		return err
	}
	return t.storage.replaceRecommendationsTx(ctx, t.tx, identity, recs)
}

func (t *sqliteTransaction) EnsureRecommendation(ctx context.Context, identity, candidate string, score float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateString(candidate, "candidate"); err != nil {
		return err
	}
	return t.storage.ensureRecommendationTx(ctx, t.tx, identity, candidate, score)
}

func (t *sqliteTransaction) RaiseRecommendationScore(ctx context.Context, identity, candidate string, floor float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if err := validateString(candidate, "candidate"); err != nil {
		return err
	}
	return t.storage.raiseRecommendationScoreTx(ctx, t.tx, identity, candidate, floor)
}

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn inside a short transaction on the main handle.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStoreError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	return wrapStoreError(tx.Commit())
}

// wrapStoreError marks SQLite busy and locked errors as retryable.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: %w", common.ErrStoreBusy, err),
			Retryable: true,
		}
	}

	return err
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
