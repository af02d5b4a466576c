package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"finstmt/pkg/core/document"
	"finstmt/pkg/models"
)

// RunRecord is one persisted extraction run.
type RunRecord struct {
	ID         string                       `json:"id"`
	SourceName string                       `json:"source_name"`
	Statements map[string]*models.Statement `json:"statements"`
	Sources    []document.PageSource        `json:"sources"`
	Usage      models.Usage                 `json:"usage"`
	CreatedAt  time.Time                    `json:"created_at"`
}

// RunRepo stores and loads extraction runs.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS extraction_runs (
//	  id UUID PRIMARY KEY,
//	  source_name TEXT,
//	  run_json JSONB,
//	  created_at TIMESTAMPTZ
//	);
type RunRepo struct {
	store *Store
}

// NewRunRepo creates a repository bound to the given store.
func NewRunRepo(store *Store) *RunRepo {
	return &RunRepo{store: store}
}

// Save persists one run and returns its generated run ID.
func (r *RunRepo) Save(ctx context.Context, sourceName string, organized map[string]*models.Statement, sources []document.PageSource, usage models.Usage) (string, error) {
	record := RunRecord{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		Statements: organized,
		Sources:    sources,
		Usage:      usage,
		CreatedAt:  time.Now().UTC(),
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}

	query := `
		INSERT INTO extraction_runs (id, source_name, run_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.store.pool.Exec(ctx, query, record.ID, record.SourceName, jsonData, record.CreatedAt); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return record.ID, nil
}

// Load retrieves one run by ID.
func (r *RunRepo) Load(ctx context.Context, id string) (*RunRecord, error) {
	query := `SELECT run_json FROM extraction_runs WHERE id = $1`

	var jsonData []byte
	if err := r.store.pool.QueryRow(ctx, query, id).Scan(&jsonData); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no run found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &record, nil
}

// LatestForSource returns the most recent run for a source name.
func (r *RunRepo) LatestForSource(ctx context.Context, sourceName string) (*RunRecord, error) {
	query := `
		SELECT run_json FROM extraction_runs
		WHERE source_name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var jsonData []byte
	if err := r.store.pool.QueryRow(ctx, query, sourceName).Scan(&jsonData); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no runs found for source %s", sourceName)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &record, nil
}
