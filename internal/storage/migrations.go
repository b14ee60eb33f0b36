package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS assessments (
					user_id TEXT PRIMARY KEY,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					gender TEXT,
					education_level TEXT,
					favorite_subject_1 TEXT,
					favorite_subject_2 TEXT,
					r_score INTEGER NOT NULL DEFAULT 0 CHECK (r_score >= 0),
					i_score INTEGER NOT NULL DEFAULT 0 CHECK (i_score >= 0),
					a_score INTEGER NOT NULL DEFAULT 0 CHECK (a_score >= 0),
					s_score INTEGER NOT NULL DEFAULT 0 CHECK (s_score >= 0),
					e_score INTEGER NOT NULL DEFAULT 0 CHECK (e_score >= 0),
					c_score INTEGER NOT NULL DEFAULT 0 CHECK (c_score >= 0),
					riasec_profile TEXT,
					chosen_major TEXT,
					satisfaction_score INTEGER CHECK (satisfaction_score BETWEEN 1 AND 5),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS user_item_responses (
					response_id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					question_id TEXT NOT NULL,
					options TEXT NOT NULL,
					chosen_code TEXT NOT NULL,
					chosen_position INTEGER NOT NULL CHECK (chosen_position BETWEEN 1 AND 3),
					response_time_sec REAL NOT NULL DEFAULT 0 CHECK (response_time_sec BETWEEN 0 AND 600),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (user_id, question_id),
					FOREIGN KEY (user_id) REFERENCES assessments(user_id) ON DELETE CASCADE
				)`,

				`CREATE TABLE IF NOT EXISTS user_major_recommendations (
					user_id TEXT NOT NULL,
					major_name TEXT NOT NULL,
					recommendation_rank INTEGER NOT NULL CHECK (recommendation_rank >= 1),
					recommendation_score REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, recommendation_rank),
					UNIQUE (user_id, major_name),
					FOREIGN KEY (user_id) REFERENCES assessments(user_id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add assessment listing indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_assessments_profile ON assessments(riasec_profile)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the schema version currently recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
