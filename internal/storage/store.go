// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/skillery/backend/internal/models"
)

// Sentinel errors returned by Store implementations. Services translate
// these into the apperr taxonomy; raw driver errors must never leak.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicate means a unique constraint rejected the write. The
	// (group,user) and (post,user) pair constraints are enforced at this
	// layer so concurrent duplicates fail loudly instead of corrupting
	// counts.
	ErrDuplicate = errors.New("storage: duplicate key")
)

// Store defines the persistence operations for all entity collections.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// Users

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Groups

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes the group and cascades to its posts,
	// memberships, join requests, comments and reactions.
	DeleteGroup(ctx context.Context, groupID string) error

	// ReconcileMemberCounts recomputes every group's member counter from
	// its Membership rows. Maintenance operation, not part of the hot
	// path. Returns the number of groups whose counter was corrected.
	ReconcileMemberCounts(ctx context.Context) (int, error)

	// Memberships. AddMember and RemoveMember update the group's member
	// counter in the same transaction as the row write; the counter never
	// goes below zero.

	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	HasMember(ctx context.Context, groupID, userID string) (bool, error)
	ListMembers(ctx context.Context, groupID string) ([]models.Membership, error)

	// Join requests. CreateJoinRequest fails with ErrDuplicate when a
	// pending request already exists for the pair; a previously resolved
	// row is replaced.

	CreateJoinRequest(ctx context.Context, req *models.JoinRequest) error
	GetJoinRequest(ctx context.Context, requestID string) (*models.JoinRequest, error)
	ResolveJoinRequest(ctx context.Context, requestID, status string) error
	DeleteJoinRequests(ctx context.Context, groupID, userID string) error
	ListJoinRequests(ctx context.Context, groupID, status string) ([]*models.JoinRequest, error)

	// Posts

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context, groupID string) ([]*models.Post, error)
	DeletePost(ctx context.Context, postID string) error

	// Reactions. AddReaction removes the opposing reaction and inserts
	// the new one in a single transaction; inserting an already-held
	// reaction fails with ErrDuplicate.

	AddReaction(ctx context.Context, postID, userID, kind string) error
	RemoveReaction(ctx context.Context, postID, userID, kind string) error

	// Comments

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID string) error
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)

	// Reports. CreateReport fails with ErrDuplicate when the reporter has
	// already reported the target.

	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, targetKind, targetID string) ([]*models.Report, error)

	// Notifications

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID string) error

	// Close releases any resources held by the store.
	Close() error
}
