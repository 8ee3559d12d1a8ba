// Package storage persists completed ranking runs in SQLite so past
// screenings can be listed and reviewed.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/hirelens/hirelens/pkg/types"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage opens the database and applies pending migrations.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveRun writes the run header and its results in one transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, job_description, total_candidates, average_score, best_candidate, best_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.JobDescription,
		run.Summary.TotalCandidates, run.Summary.AverageScore,
		run.Summary.BestCandidate, run.Summary.BestScore, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range run.Results {
		res := &run.Results[i]

		analysisJSON, err := marshalNullable(res.Analysis)
		if err != nil {
			return fmt.Errorf("failed to encode analysis for %s: %w", res.Name, err)
		}
		skillsJSON, err := marshalNullable(res.Skills)
		if err != nil {
			return fmt.Errorf("failed to encode skills for %s: %w", res.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_results (run_id, candidate_name, rank, final_score, lexical_score, semantic_score, contextual_score, analysis_json, skills_json, experience_years)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, res.Name, res.Rank, res.FinalScore,
			res.LexicalScore, res.SemanticScore, nullableFloat(res.ContextualScore),
			analysisJSON, skillsJSON, res.ExperienceYears)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", res.Name, err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run with its results, ordered by rank.
func (s *SQLiteStorage) GetRun(ctx context.Context, runID string) (*Run, error) {
	run := &Run{ID: runID}
	err := s.db.QueryRowContext(ctx, `
		SELECT job_description, total_candidates, average_score, best_candidate, best_score, created_at
		FROM runs WHERE id = ?
	`, runID).Scan(&run.JobDescription,
		&run.Summary.TotalCandidates, &run.Summary.AverageScore,
		&run.Summary.BestCandidate, &run.Summary.BestScore, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_name, rank, final_score, lexical_score, semantic_score, contextual_score, analysis_json, skills_json, experience_years
		FROM run_results WHERE run_id = ? ORDER BY rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res          types.CandidateResult
			ctxScore     sql.NullFloat64
			analysisJSON sql.NullString
			skillsJSON   sql.NullString
		)
		if err := rows.Scan(&res.Name, &res.Rank, &res.FinalScore,
			&res.LexicalScore, &res.SemanticScore, &ctxScore,
			&analysisJSON, &skillsJSON, &res.ExperienceYears); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		if ctxScore.Valid {
			v := ctxScore.Float64
			res.ContextualScore = &v
		}
		if analysisJSON.Valid && analysisJSON.String != "" {
			var analysis types.ContextualAnalysis
			if err := json.Unmarshal([]byte(analysisJSON.String), &analysis); err != nil {
				return nil, fmt.Errorf("failed to decode analysis for %s: %w", res.Name, err)
			}
			res.Analysis = &analysis
		}
		if skillsJSON.Valid && skillsJSON.String != "" {
			if err := json.Unmarshal([]byte(skillsJSON.String), &res.Skills); err != nil {
				return nil, fmt.Errorf("failed to decode skills for %s: %w", res.Name, err)
			}
		}

		run.Results = append(run.Results, res)
	}
	return run, rows.Err()
}

// ListRuns returns recent run summaries, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_description, total_candidates, average_score, best_candidate, best_score, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		rs := &RunSummary{}
		if err := rows.Scan(&rs.ID, &rs.JobDescription,
			&rs.Summary.TotalCandidates, &rs.Summary.AverageScore,
			&rs.Summary.BestCandidate, &rs.Summary.BestScore, &rs.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// DeleteRun removes a run; results cascade.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return nil
}

func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case *types.ContextualAnalysis:
		if val == nil {
			return nil, nil
		}
	case []string:
		if val == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
