// Package store persists scan reports. The scan index lives in Postgres;
// full report documents go to the archive (S3 or local disk).
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hipaaguard/hipaaguard/internal/report"
)

// ErrNotFound is returned when a scan id has no index row.
var ErrNotFound = errors.New("scan not found")

// ScanRecord is one row of the scan index. It carries the summary fields the
// list API serves without fetching the archived document.
type ScanRecord struct {
	ScanID          string    `json:"scan_id"`
	ProjectID       string    `json:"project_id"`
	ScanTimestamp   time.Time `json:"scan_timestamp"`
	Status          string    `json:"status"`
	ComplianceScore *int      `json:"compliance_score"`
	TotalViolations int       `json:"total_violations"`
	CriticalCount   int       `json:"critical_violations"`
	HighCount       int       `json:"high_violations"`
	MediumCount     int       `json:"medium_violations"`
	LowCount        int       `json:"low_violations"`
	TotalAssets     int       `json:"total_assets"`
	DurationMillis  int64     `json:"duration_ms"`
}

// Index is the Postgres-backed scan index.
type Index struct {
	pool *pgxpool.Pool
}

func NewIndex(pool *pgxpool.Pool) (*Index, error) {
	if pool == nil {
		return nil, errors.New("index pool is nil")
	}
	return &Index{pool: pool}, nil
}

// Insert records one completed or failed scan. Scan ids are unique; inserting
// the same id twice is a programming error surfaced as a constraint violation.
func (s *Index) Insert(ctx context.Context, rep report.Report) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scans (
			scan_id, project_id, scan_timestamp, status, compliance_score,
			total_violations, critical_violations, high_violations,
			medium_violations, low_violations, total_assets, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rep.ScanID, rep.ProjectID, rep.ScanTimestamp, rep.Status, rep.ComplianceScore,
		rep.TotalViolations, rep.CriticalCount, rep.HighCount,
		rep.MediumCount, rep.LowCount, rep.TotalAssets, rep.DurationMillis,
	)
	if err != nil {
		return fmt.Errorf("insert scan %s: %w", rep.ScanID, err)
	}
	return nil
}

// Get returns the index row for one scan id.
func (s *Index) Get(ctx context.Context, scanID string) (ScanRecord, error) {
	scanID = strings.TrimSpace(scanID)
	if scanID == "" {
		return ScanRecord{}, ErrNotFound
	}

	row := s.pool.QueryRow(ctx, `
		SELECT scan_id, project_id, scan_timestamp, status, compliance_score,
			total_violations, critical_violations, high_violations,
			medium_violations, low_violations, total_assets, duration_ms
		FROM scans WHERE scan_id = $1`, scanID)

	rec, err := scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ScanRecord{}, ErrNotFound
		}
		return ScanRecord{}, fmt.Errorf("get scan %s: %w", scanID, err)
	}
	return rec, nil
}

// List returns the most recent scans, newest first. A non-empty projectID
// filters to one project.
func (s *Index) List(ctx context.Context, projectID string, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT scan_id, project_id, scan_timestamp, status, compliance_score,
			total_violations, critical_violations, high_violations,
			medium_violations, low_violations, total_assets, duration_ms
		FROM scans`
	args := []any{}
	if projectID = strings.TrimSpace(projectID); projectID != "" {
		query += ` WHERE project_id = $1`
		args = append(args, projectID)
	}
	query += fmt.Sprintf(` ORDER BY scan_timestamp DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list scans: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return out, nil
}

func scanRow(row pgx.Row) (ScanRecord, error) {
	var rec ScanRecord
	err := row.Scan(
		&rec.ScanID, &rec.ProjectID, &rec.ScanTimestamp, &rec.Status, &rec.ComplianceScore,
		&rec.TotalViolations, &rec.CriticalCount, &rec.HighCount,
		&rec.MediumCount, &rec.LowCount, &rec.TotalAssets, &rec.DurationMillis,
	)
	return rec, err
}
