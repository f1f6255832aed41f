package models

// Notification types emitted by the services.
const (
	NotifyPostLiked       = "post_liked"
	NotifyPostDisliked    = "post_disliked"
	NotifyPostCommented   = "post_commented"
	NotifyCommentEdited   = "comment_edited"
	NotifyCommentRemoved  = "comment_removed"   // your comment was removed by the post author
	NotifyCommentWithdraw = "comment_withdrawn" // a comment on your post was removed by its author
	NotifyJoinRequested   = "group_join_request"
	NotifyRequestAccepted = "group_request_accepted"
	NotifyRequestRejected = "group_request_rejected"
	NotifyMemberRemoved   = "group_member_removed"
)

// Notification is an activity message delivered to a user. Creation is
// fire-and-forget: a failed insert is logged and never fails the operation
// that triggered it.
type Notification struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	Message string `json:"message"`

	// RefID optionally points at the entity the activity happened on
	// (post ID, group ID).
	RefID string `json:"refId,omitempty"`

	Read      bool  `json:"read"`
	CreatedAt int64 `json:"createdAt"`
}
