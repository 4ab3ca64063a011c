package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"flyer-builder/db"
	"flyer-builder/logger"
	"flyer-builder/models"
)

// ErrNoDatabase is returned when the repository is used without an open connection
var ErrNoDatabase = errors.New("database not configured")

// timestamps are stored as fixed-width UTC text so they sort in both drivers
const timeLayout = "2006-01-02T15:04:05.000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS flyer_runs (
		run_id      TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		page_count  INTEGER NOT NULL,
		link_count  INTEGER NOT NULL,
		failures    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flyer_pages (
		run_id    TEXT NOT NULL,
		group_key TEXT NOT NULL,
		sequence  INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		url       TEXT NOT NULL,
		PRIMARY KEY (run_id, group_key, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS flyer_links (
		run_id    TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		url       TEXT NOT NULL,
		PRIMARY KEY (run_id, row_index)
	)`,
	`CREATE TABLE IF NOT EXISTS flyer_documents (
		run_id     TEXT NOT NULL,
		group_key  TEXT NOT NULL,
		file_name  TEXT NOT NULL,
		url        TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, group_key)
	)`,
}

// FlyerRepository stores run history in db.DB
type FlyerRepository struct{}

// NewFlyerRepository creates a new FlyerRepository
func NewFlyerRepository() *FlyerRepository {
	return &FlyerRepository{}
}

// Ensure FlyerRepository implements FlyerRepositoryInterface
var _ FlyerRepositoryInterface = (*FlyerRepository)(nil)

// EnsureSchema creates the run tables when missing
func (r *FlyerRepository) EnsureSchema(ctx context.Context) error {
	if db.DB == nil {
		return ErrNoDatabase
	}
	for _, stmt := range schema {
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRun stores a run with its pages, row links and documents in one transaction
func (r *FlyerRepository) SaveRun(ctx context.Context, result *models.RunResult) error {
	if db.DB == nil {
		return ErrNoDatabase
	}
	log := logger.FromContext(ctx)

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Error("❌ SaveRun: Error starting transaction", zap.Error(err))
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	links := 0
	for _, link := range result.Links {
		if link != "" {
			links++
		}
	}

	_, err = tx.ExecContext(ctx, db.Rebind(`
		INSERT INTO flyer_runs (run_id, started_at, finished_at, page_count, link_count, failures)
		VALUES (?, ?, ?, ?, ?, ?)`),
		result.RunID,
		result.StartedAt.UTC().Format(timeLayout),
		result.FinishedAt.UTC().Format(timeLayout),
		len(result.Pages), links, len(result.Failures),
	)
	if err != nil {
		log.Error("❌ SaveRun: Error inserting run", zap.String("runId", result.RunID), zap.Error(err))
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range result.Pages {
		_, err = tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO flyer_pages (run_id, group_key, sequence, file_name, url)
			VALUES (?, ?, ?, ?, ?)`),
			result.RunID, p.GroupKey, p.Sequence, p.FileName, p.URL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", p.FileName, err)
		}
	}

	for row, url := range result.Links {
		if url == "" {
			continue
		}
		_, err = tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO flyer_links (run_id, row_index, url) VALUES (?, ?, ?)`),
			result.RunID, row, url,
		)
		if err != nil {
			return fmt.Errorf("failed to insert link for row %d: %w", row, err)
		}
	}

	for _, d := range result.Documents {
		_, err = tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO flyer_documents (run_id, group_key, file_name, url, page_count)
			VALUES (?, ?, ?, ?, ?)`),
			result.RunID, d.GroupKey, d.FileName, d.URL, d.PageCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", d.FileName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("❌ SaveRun: Error committing transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("✓ Run stored",
		zap.String("runId", result.RunID),
		zap.Int("pages", len(result.Pages)),
		zap.Int("links", links),
	)
	return nil
}

// ListRuns returns the most recent runs first
func (r *FlyerRepository) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if db.DB == nil {
		return nil, ErrNoDatabase
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.DB.QueryContext(ctx, db.Rebind(`
		SELECT run_id, started_at, finished_at, page_count, link_count, failures
		FROM flyer_runs
		ORDER BY started_at DESC
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var run models.RunSummary
		var started, finished string
		if err := rows.Scan(&run.RunID, &started, &finished, &run.PageCount, &run.LinkCount, &run.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetLinks returns the row links of a run ordered by row. Unknown runs yield sql.ErrNoRows.
func (r *FlyerRepository) GetLinks(ctx context.Context, runID string) ([]models.RowLink, error) {
	if db.DB == nil {
		return nil, ErrNoDatabase
	}

	var exists int
	err := db.DB.QueryRowContext(ctx, db.Rebind(`SELECT 1 FROM flyer_runs WHERE run_id = ?`), runID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", runID, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := db.DB.QueryContext(ctx, db.Rebind(`
		SELECT row_index, url FROM flyer_links WHERE run_id = ? ORDER BY row_index ASC`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := []models.RowLink{}
	for rows.Next() {
		var link models.RowLink
		if err := rows.Scan(&link.Row, &link.URL); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}
	return links, nil
}

// WriteResults lets the repository act as a result sink
func (r *FlyerRepository) WriteResults(ctx context.Context, _ *models.SheetTable, result *models.RunResult) error {
	return r.SaveRun(ctx, result)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
