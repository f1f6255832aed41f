package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// CreateReport persists a moderation report. A second report from the same
// user on the same target hits the unique constraint and returns
// storage.ErrDuplicate.
func (s *SQLiteStore) CreateReport(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt == 0 {
		report.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reports (id, target_kind, target_id, reporter_id, reason, details, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		report.ID, report.TargetKind, report.TargetID, report.ReporterID, report.Reason, report.Details, report.CreatedAt,
	)
	if err != nil {
		if dup := mapDuplicate(err); errors.Is(dup, storage.ErrDuplicate) {
			return dup
		}
		return fmt.Errorf("failed to insert report: %w", err)
	}

	return nil
}

// ListReports returns the reports filed against a target, oldest first.
func (s *SQLiteStore) ListReports(ctx context.Context, targetKind, targetID string) ([]*models.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, target_kind, target_id, reporter_id, reason, details, created_at FROM reports WHERE target_kind = ? AND target_id = ? ORDER BY created_at",
		targetKind, targetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		report := &models.Report{}
		if err := rows.Scan(&report.ID, &report.TargetKind, &report.TargetID, &report.ReporterID,
			&report.Reason, &report.Details, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}
