// Package authz holds the pure authorization predicates used to gate every
// mutation. Predicates operate on already-fetched snapshots and perform no
// I/O; callers resolve entities first and pass them in.
package authz

import "github.com/skillery/backend/internal/models"

// IsOwner reports whether callerID owns the group.
func IsOwner(group *models.Group, callerID string) bool {
	return group != nil && callerID != "" && group.OwnerID == callerID
}

// IsMember reports whether callerID may act as a member of the group.
// The owner is implicitly a member and never has a Membership row, so the
// caller passes the row-existence fact separately.
func IsMember(group *models.Group, callerID string, hasMembership bool) bool {
	return IsOwner(group, callerID) || (callerID != "" && hasMembership)
}

// IsPostAuthor reports whether callerID wrote the post.
func IsPostAuthor(post *models.Post, callerID string) bool {
	return post != nil && callerID != "" && post.AuthorID == callerID
}

// IsCommentAuthor reports whether callerID wrote the comment.
func IsCommentAuthor(comment *models.Comment, callerID string) bool {
	return comment != nil && callerID != "" && comment.AuthorID == callerID
}

// CanSeePosts reports whether callerID may read the group's posts.
// Public groups are readable by any authenticated caller; private groups
// only by the owner and confirmed members.
func CanSeePosts(group *models.Group, callerID string, hasMembership bool) bool {
	if group == nil || callerID == "" {
		return false
	}
	if group.Privacy == models.PrivacyPublic {
		return true
	}
	return IsMember(group, callerID, hasMembership)
}
