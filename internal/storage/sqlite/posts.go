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

// CreatePost persists a post and its media references in one transaction.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt == 0 {
		post.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO posts (id, group_id, author_id, title, subject, content, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		post.ID, post.GroupID, post.AuthorID, post.Title, post.Subject, post.Content, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	for i, key := range post.Media {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO post_media (post_id, position, blob_key) VALUES (?, ?, ?)",
			post.ID, i, key,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post media: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPost retrieves a post with its media references and reaction counts.
func (s *SQLiteStore) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post := &models.Post{}
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.group_id, p.author_id, p.title, p.subject, p.content, p.created_at,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
		       (SELECT COUNT(*) FROM dislikes d WHERE d.post_id = p.id)
		FROM posts p WHERE p.id = ?`,
		postID,
	).Scan(&post.ID, &post.GroupID, &post.AuthorID, &post.Title, &post.Subject, &post.Content,
		&post.CreatedAt, &post.LikeCount, &post.DislikeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	media, err := s.postMedia(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Media = media

	return post, nil
}

// ListPosts returns the group's posts, newest first, with reaction counts.
// Media references are included.
func (s *SQLiteStore) ListPosts(ctx context.Context, groupID string) ([]*models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.group_id, p.author_id, p.title, p.subject, p.content, p.created_at,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
		       (SELECT COUNT(*) FROM dislikes d WHERE d.post_id = p.id)
		FROM posts p WHERE p.group_id = ? ORDER BY p.created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.GroupID, &post.AuthorID, &post.Title, &post.Subject,
			&post.Content, &post.CreatedAt, &post.LikeCount, &post.DislikeCount); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	for _, post := range posts {
		media, err := s.postMedia(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		post.Media = media
	}

	return posts, nil
}

// DeletePost removes a post; comments, reactions and media rows cascade.
func (s *SQLiteStore) DeletePost(ctx context.Context, postID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
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

func (s *SQLiteStore) postMedia(ctx context.Context, postID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT blob_key FROM post_media WHERE post_id = ? ORDER BY position",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get post media: %w", err)
	}
	defer rows.Close()

	var media []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan post media: %w", err)
		}
		media = append(media, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post media: %w", err)
	}

	return media, nil
}
