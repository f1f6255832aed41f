// Package models defines the core domain entities for the Skillery
// community backend.
//
// # Entities
//
//   - User: registered account; the authenticated caller identity
//   - Group: a discussion group, public or private, with a single owner
//   - Membership: confirmed (group, user) membership row
//   - JoinRequest: pending/resolved request for access to a private group
//   - Post: content published inside a group, with optional media blobs
//   - Comment: reply attached to a post
//   - Reaction: a like or dislike held by a user on a post
//   - Report: a moderation flag filed against a group or a post
//   - Notification: activity message delivered to a user
//
// # Design notes
//
// Relationships are expressed as ID strings rather than pointers to avoid
// circular references. The group owner is implicitly a member and never has
// a Membership row; membership checks must treat ownership and row
// existence as disjoint facts (see the authz package).
//
// Group.MemberCount is denormalized: it must equal the number of Membership
// rows for the group at rest. The storage layer updates it in the same
// transaction as the row insert/delete, never by recounting on the hot path.
package models
