package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// AddMember inserts a membership row and increments the group's member
// counter in the same transaction. A racing duplicate insert hits the
// (group_id, user_id) primary key and returns storage.ErrDuplicate, leaving
// the counter untouched.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO memberships (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		groupID, userID, time.Now().Unix(),
	)
	if err != nil {
		if dup := mapDuplicate(err); errors.Is(dup, storage.ErrDuplicate) {
			return dup
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE groups SET member_count = member_count + 1 WHERE id = ?",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment member count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveMember deletes a membership row and decrements the group's member
// counter in the same transaction. The counter is clamped at zero.
// Returns storage.ErrNotFound when no membership row exists.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE groups SET member_count = MAX(member_count - 1, 0) WHERE id = ?",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement member count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HasMember reports whether a membership row exists for the pair.
func (s *SQLiteStore) HasMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check membership: %w", err)
}

// ListMembers returns the group's membership rows ordered by join time.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, user_id, joined_at FROM memberships WHERE group_id = ? ORDER BY joined_at",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return members, nil
}
