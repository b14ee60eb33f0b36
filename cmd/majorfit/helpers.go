package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/majorfit/internal/catalog"
	"github.com/Veraticus/majorfit/internal/common"
	"github.com/Veraticus/majorfit/internal/config"
	"github.com/Veraticus/majorfit/internal/quiz"
	"github.com/Veraticus/majorfit/internal/service"
	"github.com/Veraticus/majorfit/internal/storage"
	"github.com/Veraticus/majorfit/internal/txqueue"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func setConfigDefaults() {
	if dbPath, err := config.DefaultDatabasePath(); err == nil {
		viper.SetDefault("database.path", dbPath)
	}
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("recommend.limit", quiz.DefaultPreviewLimit)
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.initial_delay", 100*time.Millisecond)
}

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newQuizService opens the store and wires the assessment pipeline to the
// built-in catalogs. The caller closes the returned storage.
func newQuizService(ctx context.Context) (*quiz.Service, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := quiz.NewService(store, txqueue.New(), catalog.DefaultItems(), catalog.DefaultCandidates())
	return svc, store, nil
}

func retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  viper.GetInt("retry.max_attempts"),
		InitialDelay: viper.GetDuration("retry.initial_delay"),
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}

// withRetry reruns a whole transactional call while the store reports
// itself busy.
func withRetry[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := common.WithRetry(ctx, func() error {
		var err error
		result, err = fn()
		return err
	}, retryOptions())
	return result, err
}

// userFacing turns expected pipeline outcomes into messages for the user.
func userFacing(err error) error {
	if err == nil || !quiz.IsExpected(err) {
		return err
	}
	return common.NewUserError(err.Error(), err)
}

// parseKeyValues parses repeated KEY=VALUE flags.
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func parseElapsed(pairs []string) (map[string]float64, error) {
	raw, err := parseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for key, value := range raw {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("elapsed time for %s: %w", key, err)
		}
		out[key] = seconds
	}
	return out, nil
}

// readSubmissionFile loads a submission from a JSON or YAML file.
func readSubmissionFile(path string) (*quiz.SubmitRequest, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var req quiz.SubmitRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &req)
	default:
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse answers file %s: %w", path, err)
	}
	return &req, nil
}

// writeOutput renders v as JSON or YAML, or calls table for the default
// human readable form.
func writeOutput(w io.Writer, format string, v any, table func(io.Writer) error) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outputTable, "":
		return table(w)
	default:
		return fmt.Errorf("%w: unknown output format %q", common.ErrInvalidConfig, format)
	}
}
