package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hireloop/formreport/internal/models"
	"github.com/hireloop/formreport/internal/submission"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		candidate_name TEXT,
		position_type TEXT,
		email TEXT,
		source_file TEXT,
		metadata TEXT NOT NULL,
		qa TEXT NOT NULL,
		html TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveReport inserts a report and stamps its creation time.
func (s *SQLiteStorage) SaveReport(ctx context.Context, r *models.Report) error {
	metadataJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	qaJSON, err := json.Marshal(r.QA)
	if err != nil {
		return fmt.Errorf("failed to marshal qa: %w", err)
	}

	r.CreatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, candidate_name, position_type, email, source_file, metadata, qa, html, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CandidateName, r.PositionType, r.Email, r.SourceFile,
		string(metadataJSON), string(qaJSON), r.HTML, r.CreatedAt,
	)
	return err
}

// GetReport returns a report by ID, including the rendered document.
func (s *SQLiteStorage) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	var metadataJSON, qaJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, candidate_name, position_type, email, source_file, metadata, qa, html, created_at
		 FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.CandidateName, &r.PositionType, &r.Email, &r.SourceFile,
		&metadataJSON, &qaJSON, &r.HTML, &r.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(metadataJSON), &r.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if qaJSON != "" && qaJSON != "null" {
		var qa []submission.QA
		if err := json.Unmarshal([]byte(qaJSON), &qa); err != nil {
			return nil, fmt.Errorf("failed to unmarshal qa: %w", err)
		}
		r.QA = qa
	}

	return &r, nil
}

// ListReports returns report summaries, most recent first.
func (s *SQLiteStorage) ListReports(ctx context.Context) ([]models.ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, candidate_name, position_type, email, source_file, created_at
		 FROM reports ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ReportSummary
	for rows.Next() {
		var sum models.ReportSummary
		if err := rows.Scan(&sum.ID, &sum.CandidateName, &sum.PositionType,
			&sum.Email, &sum.SourceFile, &sum.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// DeleteReport removes a report by ID.
func (s *SQLiteStorage) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountReports returns the number of stored reports.
func (s *SQLiteStorage) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
