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

// CreateGroup persists a new group. ID and CreatedAt are generated when
// unset; the member counter starts at zero since the owner never has a
// membership row.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.MemberCount = 0

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, privacy, owner_id, member_count, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)",
		group.ID, group.Name, group.Description, group.Privacy, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, privacy, owner_id, member_count, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Privacy, &group.OwnerID, &group.MemberCount, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// UpdateGroup updates the group's editable fields. The member counter is
// deliberately excluded; it only moves with membership writes.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ?, privacy = ? WHERE id = ?",
		group.Name, group.Description, group.Privacy, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteGroup removes the group. Memberships, join requests, posts and
// their comments/reactions/media go with it via foreign key cascades.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ReconcileMemberCounts recomputes every group's member counter from the
// memberships table. This is the out-of-band sweep for counters knocked
// askew by a failure between paired writes; it never runs on the hot path.
func (s *SQLiteStore) ReconcileMemberCounts(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE groups
		SET member_count = (SELECT COUNT(*) FROM memberships m WHERE m.group_id = groups.id)
		WHERE member_count != (SELECT COUNT(*) FROM memberships m WHERE m.group_id = groups.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile member counts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read reconcile result: %w", err)
	}

	return int(n), nil
}
