package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/authz"
	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/notify"
	"github.com/skillery/backend/internal/storage"
)

// PostService implements posts, reactions, comments and post reporting.
type PostService struct {
	store storage.Store
	sink  notify.Sink
}

// NewPostService creates a PostService over the given storage backend.
func NewPostService(store storage.Store, sink notify.Sink) *PostService {
	return &PostService{store: store, sink: sink}
}

// CreatePost publishes a post in a group. Members only (the owner counts).
func (s *PostService) CreatePost(ctx context.Context, groupID, authorID, title, subject, content string, media []string) (*models.Post, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group, authorID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, apperr.Validation("post title is required")
	}
	if content == "" {
		return nil, apperr.Validation("post content is required")
	}

	post := &models.Post{
		GroupID:  groupID,
		AuthorID: authorID,
		Title:    title,
		Subject:  subject,
		Content:  content,
		Media:    media,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, apperr.Dependency("failed to create post", err)
	}

	slog.Info("post created", "post_id", post.ID, "group_id", groupID, "author_id", authorID)
	return post, nil
}

// GetPost retrieves a post, applying the group's visibility rule.
func (s *PostService) GetPost(ctx context.Context, postID, callerID string) (*models.Post, error) {
	post, _, err := s.getVisiblePost(ctx, postID, callerID)
	return post, err
}

// ListPosts returns the group's posts. Private groups expose posts only to
// the owner and confirmed members; public groups to any authenticated
// caller.
func (s *PostService) ListPosts(ctx context.Context, groupID, callerID string) ([]*models.Post, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisible(ctx, group, callerID); err != nil {
		return nil, err
	}

	posts, err := s.store.ListPosts(ctx, groupID)
	if err != nil {
		return nil, apperr.Dependency("failed to list posts", err)
	}
	return posts, nil
}

// DeletePost removes a post. Allowed for the post author and the group
// owner.
func (s *PostService) DeletePost(ctx context.Context, postID, callerID string) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	group, err := s.getGroup(ctx, post.GroupID)
	if err != nil {
		return err
	}
	if !authz.IsPostAuthor(post, callerID) && !authz.IsOwner(group, callerID) {
		return apperr.Unauthorized(apperr.CodeNotAuthor, "only the author or the group owner may delete the post")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return apperr.Dependency("failed to delete post", err)
	}

	slog.Info("post deleted", "post_id", postID, "by", callerID)
	return nil
}

// Like records a like for (post, caller). An existing dislike is removed in
// the same storage transaction; liking twice yields AlreadyLiked. A
// successful insertion on someone else's post notifies the author.
func (s *PostService) Like(ctx context.Context, postID, callerID string) error {
	return s.react(ctx, postID, callerID, models.ReactionLike)
}

// Dislike is symmetric to Like with the opposing set.
func (s *PostService) Dislike(ctx context.Context, postID, callerID string) error {
	return s.react(ctx, postID, callerID, models.ReactionDislike)
}

// Unlike removes the caller's like; NotLiked when absent. Removals never
// notify.
func (s *PostService) Unlike(ctx context.Context, postID, callerID string) error {
	return s.unreact(ctx, postID, callerID, models.ReactionLike)
}

// Undislike removes the caller's dislike; NotDisliked when absent.
func (s *PostService) Undislike(ctx context.Context, postID, callerID string) error {
	return s.unreact(ctx, postID, callerID, models.ReactionDislike)
}

func (s *PostService) react(ctx context.Context, postID, callerID, kind string) error {
	post, _, err := s.getVisiblePost(ctx, postID, callerID)
	if err != nil {
		return err
	}

	if err := s.store.AddReaction(ctx, postID, callerID, kind); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			if kind == models.ReactionLike {
				return apperr.InvalidState(apperr.CodeAlreadyLiked, "already liked this post")
			}
			return apperr.InvalidState(apperr.CodeAlreadyDisliked, "already disliked this post")
		}
		return apperr.Dependency("failed to add reaction", err)
	}

	if post.AuthorID != callerID {
		notifType := models.NotifyPostLiked
		message := "someone liked your post " + post.Title
		if kind == models.ReactionDislike {
			notifType = models.NotifyPostDisliked
			message = "someone disliked your post " + post.Title
		}
		notify.Send(ctx, s.sink, post.AuthorID, notifType, message, postID)
	}

	return nil
}

func (s *PostService) unreact(ctx context.Context, postID, callerID, kind string) error {
	if _, _, err := s.getVisiblePost(ctx, postID, callerID); err != nil {
		return err
	}

	if err := s.store.RemoveReaction(ctx, postID, callerID, kind); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if kind == models.ReactionLike {
				return apperr.InvalidState(apperr.CodeNotLiked, "post is not liked")
			}
			return apperr.InvalidState(apperr.CodeNotDisliked, "post is not disliked")
		}
		return apperr.Dependency("failed to remove reaction", err)
	}

	return nil
}

// AddComment attaches a comment to a post. Content must be non-empty after
// trimming. The post author is notified unless they commented themselves.
func (s *PostService) AddComment(ctx context.Context, postID, callerID, content string) (*models.Comment, error) {
	post, _, err := s.getVisiblePost(ctx, postID, callerID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: callerID,
		Content:  content,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, apperr.Dependency("failed to create comment", err)
	}

	if post.AuthorID != callerID {
		notify.Send(ctx, s.sink, post.AuthorID, models.NotifyPostCommented,
			"new comment on your post "+post.Title, postID)
	}

	return comment, nil
}

// EditComment rewrites a comment. Author only; the post author is notified
// of the activity unless they are the one editing.
func (s *PostService) EditComment(ctx context.Context, commentID, callerID, content string) (*models.Comment, error) {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.IsCommentAuthor(comment, callerID) {
		return nil, apperr.Unauthorized(apperr.CodeNotAuthor, "only the author may edit the comment")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, apperr.Dependency("failed to update comment", err)
	}

	post, err := s.getPost(ctx, comment.PostID)
	if err == nil && post.AuthorID != callerID {
		notify.Send(ctx, s.sink, post.AuthorID, models.NotifyCommentEdited,
			"a comment on your post "+post.Title+" was edited", post.ID)
	}

	return comment, nil
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post author. Which of the two acted decides who gets told: the post
// author deleting someone's comment notifies the comment author; the
// comment author withdrawing their own comment notifies the post author.
// Self-delete on one's own post notifies nobody.
func (s *PostService) DeleteComment(ctx context.Context, commentID, callerID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}
	post, err := s.getPost(ctx, comment.PostID)
	if err != nil {
		return err
	}

	byCommentAuthor := authz.IsCommentAuthor(comment, callerID)
	byPostAuthor := authz.IsPostAuthor(post, callerID)
	if !byCommentAuthor && !byPostAuthor {
		return apperr.Unauthorized(apperr.CodeNotAuthor, "only the comment author or the post author may delete the comment")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return apperr.Dependency("failed to delete comment", err)
	}

	switch {
	case byCommentAuthor && byPostAuthor:
		// Deleting one's own comment on one's own post is silent.
	case byPostAuthor:
		notify.Send(ctx, s.sink, comment.AuthorID, models.NotifyCommentRemoved,
			"your comment on "+post.Title+" was removed", post.ID)
	default:
		notify.Send(ctx, s.sink, post.AuthorID, models.NotifyCommentWithdraw,
			"a comment on your post "+post.Title+" was removed", post.ID)
	}

	return nil
}

// ListComments returns a post's comments under the same visibility rule as
// the post itself.
func (s *PostService) ListComments(ctx context.Context, postID, callerID string) ([]*models.Comment, error) {
	if _, _, err := s.getVisiblePost(ctx, postID, callerID); err != nil {
		return nil, err
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, apperr.Dependency("failed to list comments", err)
	}
	return comments, nil
}

// ReportPost files a moderation report against a post. Authors may not
// report their own posts; one report per user per post.
func (s *PostService) ReportPost(ctx context.Context, postID, callerID, reason, details string) error {
	post, _, err := s.getVisiblePost(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if authz.IsPostAuthor(post, callerID) {
		return apperr.Unauthorized(apperr.CodeReportOwn, "cannot report your own post")
	}
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("report reason is required")
	}

	report := &models.Report{
		TargetKind: models.ReportTargetPost,
		TargetID:   postID,
		ReporterID: callerID,
		Reason:     reason,
		Details:    details,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.InvalidState(apperr.CodeAlreadyReported, "already reported this post")
		}
		return apperr.Dependency("failed to create report", err)
	}

	return nil
}

func (s *PostService) getGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("group")
		}
		return nil, apperr.Dependency("failed to get group", err)
	}
	return group, nil
}

func (s *PostService) getPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("post")
		}
		return nil, apperr.Dependency("failed to get post", err)
	}
	return post, nil
}

func (s *PostService) getComment(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("comment")
		}
		return nil, apperr.Dependency("failed to get comment", err)
	}
	return comment, nil
}

// getVisiblePost resolves a post and enforces the group visibility rule
// for the caller.
func (s *PostService) getVisiblePost(ctx context.Context, postID, callerID string) (*models.Post, *models.Group, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.getGroup(ctx, post.GroupID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.requireVisible(ctx, group, callerID); err != nil {
		return nil, nil, err
	}
	return post, group, nil
}

func (s *PostService) requireVisible(ctx context.Context, group *models.Group, callerID string) error {
	if group.Privacy == models.PrivacyPublic {
		return nil
	}
	return s.requireMember(ctx, group, callerID)
}

func (s *PostService) requireMember(ctx context.Context, group *models.Group, callerID string) error {
	hasRow, err := s.store.HasMember(ctx, group.ID, callerID)
	if err != nil {
		return apperr.Dependency("failed to check membership", err)
	}
	if !authz.IsMember(group, callerID, hasRow) {
		return apperr.Unauthorized(apperr.CodeNotMember, "members only")
	}
	return nil
}
