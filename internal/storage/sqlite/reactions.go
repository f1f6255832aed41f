package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

func reactionTables(kind string) (target, opposite string, err error) {
	switch kind {
	case models.ReactionLike:
		return "likes", "dislikes", nil
	case models.ReactionDislike:
		return "dislikes", "likes", nil
	default:
		return "", "", fmt.Errorf("unknown reaction kind %q", kind)
	}
}

// AddReaction inserts the reaction for (post, user), removing the opposing
// one in the same transaction so the mutual-exclusion invariant holds at
// every commit point. Inserting a reaction the user already holds hits the
// pair primary key and returns storage.ErrDuplicate.
func (s *SQLiteStore) AddReaction(ctx context.Context, postID, userID, kind string) error {
	target, opposite, err := reactionTables(kind)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM "+opposite+" WHERE post_id = ? AND user_id = ?",
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove opposing reaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO "+target+" (post_id, user_id, created_at) VALUES (?, ?, ?)",
		postID, userID, time.Now().Unix(),
	)
	if err != nil {
		if dup := mapDuplicate(err); errors.Is(dup, storage.ErrDuplicate) {
			return dup
		}
		return fmt.Errorf("failed to insert reaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveReaction deletes the reaction for (post, user). Returns
// storage.ErrNotFound when the user does not hold it.
func (s *SQLiteStore) RemoveReaction(ctx context.Context, postID, userID, kind string) error {
	target, _, err := reactionTables(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+target+" WHERE post_id = ? AND user_id = ?",
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
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
