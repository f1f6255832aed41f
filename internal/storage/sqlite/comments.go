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

// CreateComment persists a new comment.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if comment.CreatedAt == 0 {
		comment.CreatedAt = now
	}
	if comment.UpdatedAt == 0 {
		comment.UpdatedAt = comment.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// GetComment retrieves a comment by ID.
func (s *SQLiteStore) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, post_id, author_id, content, created_at, updated_at FROM comments WHERE id = ?",
		commentID,
	).Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// UpdateComment rewrites the comment's content and update timestamp.
func (s *SQLiteStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE comments SET content = ?, updated_at = ? WHERE id = ?",
		comment.Content, comment.UpdatedAt, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
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

// DeleteComment removes a comment by ID.
func (s *SQLiteStore) DeleteComment(ctx context.Context, commentID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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

// ListComments returns the post's comments in creation order.
func (s *SQLiteStore) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, post_id, author_id, content, created_at, updated_at FROM comments WHERE post_id = ? ORDER BY created_at",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content,
			&comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}
