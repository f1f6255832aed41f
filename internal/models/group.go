package models

// Group privacy settings.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// JoinRequest statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Group represents a discussion group owned by a single user.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// Description is free-form text shown on the group page.
	Description string `json:"description"`

	// Privacy is either PrivacyPublic or PrivacyPrivate. Private groups
	// admit members through the join-request flow only.
	Privacy string `json:"privacy"`

	// OwnerID references the owning user. The owner is implicitly a member
	// and never appears in the memberships table.
	OwnerID string `json:"ownerId"`

	// MemberCount mirrors the number of Membership rows for this group.
	// Never negative; updated alongside every membership insert/delete.
	MemberCount int `json:"memberCount"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Membership is the persisted evidence of confirmed group membership,
// unique per (group, user). Ownership is not represented here.
type Membership struct {
	GroupID  string `json:"groupId"`
	UserID   string `json:"userId"`
	JoinedAt int64  `json:"joinedAt"`
}

// JoinRequest is a user's request for access to a private group.
// At most one pending request per (group, user) exists at a time.
type JoinRequest struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"` // pending, accepted, rejected
	CreatedAt int64  `json:"createdAt"`

	// ResolvedAt is the Unix timestamp when the owner accepted or rejected
	// the request. Zero while pending.
	ResolvedAt int64 `json:"resolvedAt,omitempty"`
}
