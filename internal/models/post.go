package models

// Reaction kinds. A user holds at most one of the two per post.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Post is content published inside a group.
type Post struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`

	// AuthorID references the user who wrote the post.
	AuthorID string `json:"authorId"`

	Title   string `json:"title"`
	Subject string `json:"subject"`
	Content string `json:"content"`

	// Media holds opaque blob references (keys into the blob store),
	// in upload order.
	Media []string `json:"media,omitempty"`

	// LikeCount and DislikeCount are derived from the reaction sets and
	// populated on reads; they are not stored on the post row.
	LikeCount    int `json:"likeCount"`
	DislikeCount int `json:"dislikeCount"`

	CreatedAt int64 `json:"createdAt"`
}

// Reaction is a like or dislike held by a user on a post, unique per
// (post, user, kind). The like/dislike mutual exclusion is enforced by the
// service and backed by unique indexes.
type Reaction struct {
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	Kind      string `json:"kind"` // ReactionLike or ReactionDislike
	CreatedAt int64  `json:"createdAt"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`

	// UpdatedAt changes whenever the author edits the comment.
	UpdatedAt int64 `json:"updatedAt"`
}

// Report target kinds.
const (
	ReportTargetGroup = "group"
	ReportTargetPost  = "post"
)

// Report is a moderation flag filed by a user against a group or a post.
// A user may report a given target at most once; reports accumulate for
// manual review and trigger no automated action.
type Report struct {
	ID         string `json:"id"`
	TargetKind string `json:"targetKind"` // ReportTargetGroup or ReportTargetPost
	TargetID   string `json:"targetId"`
	ReporterID string `json:"reporterId"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}
