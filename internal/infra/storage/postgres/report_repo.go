package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
)

// ReportRepo archives privacy-safe error reports. Reports are already a
// sanitized projection when they reach this layer; the repo stores them as
// received and never touches record context.
type ReportRepo struct {
	db *DB
}

// NewReportRepo creates a report archive over db.
func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// StoredReport is an archived report row.
type StoredReport struct {
	ID          int64     `db:"id" json:"id"`
	Component   string    `db:"component" json:"component"`
	TotalErrors int       `db:"total_errors" json:"total_errors"`
	RetryCount  int       `db:"retry_count" json:"retry_count"`
	Errors      []byte    `db:"errors" json:"-"`
	PrivacyNote string    `db:"privacy_note" json:"privacy_note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Save archives a report, retrying transient database failures.
func (r *ReportRepo) Save(ctx context.Context, report domain.Report) error {
	entries, err := json.Marshal(report.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal report entries: %w", err)
	}

	return withBackoff(func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO error_reports (component, total_errors, retry_count, errors, privacy_note, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			report.Component, report.TotalErrors, report.RetryCount, entries, report.PrivacyNote, report.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}
		return nil
	})
}

// Recent returns the most recently archived reports, newest first.
func (r *ReportRepo) Recent(ctx context.Context, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = 10
	}

	var reports []StoredReport
	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, component, total_errors, retry_count, errors, privacy_note, created_at
		FROM error_reports
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	return reports, nil
}
