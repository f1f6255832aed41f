package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// CreateJoinRequest inserts a pending join request. A previously resolved
// row for the same pair is replaced; an existing PENDING row hits the
// partial unique index and returns storage.ErrDuplicate.
func (s *SQLiteStore) CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt == 0 {
		req.CreatedAt = time.Now().Unix()
	}
	req.Status = models.RequestPending

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear resolved history for the pair so re-requesting after a
	// rejection or a leave works.
	_, err = tx.ExecContext(ctx,
		"DELETE FROM join_requests WHERE group_id = ? AND user_id = ? AND status != 'pending'",
		req.GroupID, req.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear resolved requests: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO join_requests (id, group_id, user_id, status, created_at, resolved_at) VALUES (?, ?, ?, ?, ?, 0)",
		req.ID, req.GroupID, req.UserID, req.Status, req.CreatedAt,
	)
	if err != nil {
		if dup := mapDuplicate(err); errors.Is(dup, storage.ErrDuplicate) {
			return dup
		}
		return fmt.Errorf("failed to insert join request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetJoinRequest retrieves a join request by ID.
func (s *SQLiteStore) GetJoinRequest(ctx context.Context, requestID string) (*models.JoinRequest, error) {
	req := &models.JoinRequest{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, user_id, status, created_at, resolved_at FROM join_requests WHERE id = ?",
		requestID,
	).Scan(&req.ID, &req.GroupID, &req.UserID, &req.Status, &req.CreatedAt, &req.ResolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}

	return req, nil
}

// ResolveJoinRequest flips a PENDING request to accepted or rejected.
// Resolving an already-resolved request returns storage.ErrNotFound since
// the guarded update matches no row.
func (s *SQLiteStore) ResolveJoinRequest(ctx context.Context, requestID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE join_requests SET status = ?, resolved_at = ? WHERE id = ? AND status = 'pending'",
		status, time.Now().Unix(), requestID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve join request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read resolve result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteJoinRequests removes every request row for the pair, whatever its
// status. Called on leave so the user may request again later.
func (s *SQLiteStore) DeleteJoinRequests(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM join_requests WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete join requests: %w", err)
	}

	return nil
}

// ListJoinRequests returns the group's requests, optionally filtered by
// status, newest first.
func (s *SQLiteStore) ListJoinRequests(ctx context.Context, groupID, status string) ([]*models.JoinRequest, error) {
	query := "SELECT id, group_id, user_id, status, created_at, resolved_at FROM join_requests WHERE group_id = ?"
	args := []any{groupID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.JoinRequest
	for rows.Next() {
		req := &models.JoinRequest{}
		if err := rows.Scan(&req.ID, &req.GroupID, &req.UserID, &req.Status, &req.CreatedAt, &req.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan join request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate join requests: %w", err)
	}

	return requests, nil
}
