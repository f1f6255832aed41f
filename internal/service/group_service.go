package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/authz"
	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/notify"
	"github.com/skillery/backend/internal/storage"
)

// GroupService implements the group and membership lifecycle: create/edit/
// delete, the join and join-request flows, member removal and reporting.
type GroupService struct {
	store storage.Store
	sink  notify.Sink
}

// NewGroupService creates a GroupService over the given storage backend.
func NewGroupService(store storage.Store, sink notify.Sink) *GroupService {
	return &GroupService{store: store, sink: sink}
}

// MembershipStatus is the answer to a checkMembership query.
type MembershipStatus struct {
	IsOwner   bool `json:"isOwner"`
	IsMember  bool `json:"isMember"`
	Requested bool `json:"requested"`
}

// CreateGroup creates a new group owned by the caller. The owner does not
// get a membership row; ownership is implicit membership.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID, name, description, privacy string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		return nil, apperr.Validation("privacy must be public or private")
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		Privacy:     privacy,
		OwnerID:     ownerID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, apperr.Dependency("failed to create group", err)
	}

	slog.Info("group created", "group_id", group.ID, "owner_id", ownerID, "privacy", privacy)
	return group, nil
}

// GetGroup retrieves a group snapshot.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, groupID)
}

// UpdateGroup lets the owner edit name, description and privacy.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, callerID, name, description, privacy string) (*models.Group, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwner(group, callerID) {
		return nil, apperr.Unauthorized(apperr.CodeNotOwner, "only the owner may edit the group")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}
	if privacy != models.PrivacyPublic && privacy != models.PrivacyPrivate {
		return nil, apperr.Validation("privacy must be public or private")
	}

	group.Name = name
	group.Description = description
	group.Privacy = privacy
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, apperr.Dependency("failed to update group", err)
	}

	return group, nil
}

// DeleteGroup removes the group and everything under it (posts, comments,
// reactions, memberships, join requests). Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.IsOwner(group, callerID) {
		return apperr.Unauthorized(apperr.CodeNotOwner, "only the owner may delete the group")
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return apperr.Dependency("failed to delete group", err)
	}

	slog.Info("group deleted", "group_id", groupID, "owner_id", callerID)
	return nil
}

// Join adds the caller to a public group: NONE -> MEMBER. Private groups
// reject the direct join; the request flow must be used instead.
func (s *GroupService) Join(ctx context.Context, groupID, userID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if authz.IsOwner(group, userID) {
		return apperr.InvalidState(apperr.CodeAlreadyMember, "the owner is already a member")
	}
	if group.Privacy != models.PrivacyPublic {
		return apperr.InvalidState(apperr.CodePrivacyMismatch, "private groups require a join request")
	}

	// The pair constraint turns a racing duplicate join into ErrDuplicate,
	// keeping the counter paired 1:1 with the row insert.
	if err := s.store.AddMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.InvalidState(apperr.CodeAlreadyMember, "already a member of this group")
		}
		return apperr.Dependency("failed to add member", err)
	}

	slog.Info("member joined", "group_id", groupID, "user_id", userID)
	return nil
}

// RequestJoin files a pending join request for a private group. A pending
// request for the pair already existing yields DuplicateRequest; resolved
// history does not block (see DESIGN.md).
func (s *GroupService) RequestJoin(ctx context.Context, groupID, userID string) (*models.JoinRequest, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if authz.IsOwner(group, userID) {
		return nil, apperr.InvalidState(apperr.CodeAlreadyMember, "the owner is already a member")
	}
	if group.Privacy != models.PrivacyPrivate {
		return nil, apperr.InvalidState(apperr.CodePrivacyMismatch, "public groups are joined directly")
	}

	isMember, err := s.store.HasMember(ctx, groupID, userID)
	if err != nil {
		return nil, apperr.Dependency("failed to check membership", err)
	}
	if isMember {
		return nil, apperr.InvalidState(apperr.CodeAlreadyMember, "already a member of this group")
	}

	req := &models.JoinRequest{GroupID: groupID, UserID: userID}
	if err := s.store.CreateJoinRequest(ctx, req); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.InvalidState(apperr.CodeDuplicateRequest, "a pending request already exists")
		}
		return nil, apperr.Dependency("failed to create join request", err)
	}

	notify.Send(ctx, s.sink, group.OwnerID, models.NotifyJoinRequested,
		fmt.Sprintf("%s has a new join request", group.Name), groupID)

	slog.Info("join requested", "group_id", groupID, "user_id", userID, "request_id", req.ID)
	return req, nil
}

// AcceptRequest resolves a pending request and confirms the membership:
// REQUESTED -> MEMBER. Owner only.
func (s *GroupService) AcceptRequest(ctx context.Context, groupID, requestID, callerID string) error {
	group, req, err := s.getOwnedRequest(ctx, groupID, requestID, callerID)
	if err != nil {
		return err
	}

	if err := s.store.ResolveJoinRequest(ctx, requestID, models.RequestAccepted); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Lost a race with another resolution.
			return apperr.InvalidState(apperr.CodeAlreadyProcessed, "request already processed")
		}
		return apperr.Dependency("failed to resolve request", err)
	}

	if err := s.store.AddMember(ctx, groupID, req.UserID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.InvalidState(apperr.CodeAlreadyMember, "already a member of this group")
		}
		// The request is resolved but the membership write failed; the
		// caller sees the failure and the reconcile sweep cannot help
		// here, so surface it loudly.
		return apperr.Dependency("request accepted but membership write failed", err)
	}

	notify.Send(ctx, s.sink, req.UserID, models.NotifyRequestAccepted,
		fmt.Sprintf("your request to join %s was accepted", group.Name), groupID)

	slog.Info("request accepted", "group_id", groupID, "request_id", requestID, "user_id", req.UserID)
	return nil
}

// RejectRequest resolves a pending request without membership side effects:
// REQUESTED -> NONE. Owner only.
func (s *GroupService) RejectRequest(ctx context.Context, groupID, requestID, callerID string) error {
	group, req, err := s.getOwnedRequest(ctx, groupID, requestID, callerID)
	if err != nil {
		return err
	}

	if err := s.store.ResolveJoinRequest(ctx, requestID, models.RequestRejected); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.InvalidState(apperr.CodeAlreadyProcessed, "request already processed")
		}
		return apperr.Dependency("failed to resolve request", err)
	}

	notify.Send(ctx, s.sink, req.UserID, models.NotifyRequestRejected,
		fmt.Sprintf("your request to join %s was declined", group.Name), groupID)

	slog.Info("request rejected", "group_id", groupID, "request_id", requestID, "user_id", req.UserID)
	return nil
}

// Leave removes the caller's membership: MEMBER -> NONE. The owner can
// never leave; deleting the group is the only exit. Any lingering join
// request for the pair is cleared so the user may request again later.
func (s *GroupService) Leave(ctx context.Context, groupID, userID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if authz.IsOwner(group, userID) {
		return apperr.InvalidState(apperr.CodeOwnerCannotLeave, "the owner cannot leave; delete the group instead")
	}

	if err := s.store.RemoveMember(ctx, groupID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.InvalidState(apperr.CodeNotMember, "not a member of this group")
		}
		return apperr.Dependency("failed to remove member", err)
	}

	if err := s.store.DeleteJoinRequests(ctx, groupID, userID); err != nil {
		// Membership is already gone; a stale request row only blocks a
		// future re-request, so surface the failure.
		return apperr.Dependency("left group but failed to clear join requests", err)
	}

	slog.Info("member left", "group_id", groupID, "user_id", userID)
	return nil
}

// RemoveMember lets the owner remove a confirmed member. The owner is not
// removable.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID, callerID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.IsOwner(group, callerID) {
		return apperr.Unauthorized(apperr.CodeNotOwner, "only the owner may remove members")
	}
	if memberID == group.OwnerID {
		return apperr.InvalidState(apperr.CodeCannotRemoveOwn, "the owner cannot be removed")
	}

	if err := s.store.RemoveMember(ctx, groupID, memberID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.InvalidState(apperr.CodeNotMember, "user is not a member of this group")
		}
		return apperr.Dependency("failed to remove member", err)
	}

	notify.Send(ctx, s.sink, memberID, models.NotifyMemberRemoved,
		fmt.Sprintf("you were removed from %s", group.Name), groupID)

	slog.Info("member removed", "group_id", groupID, "member_id", memberID, "by", callerID)
	return nil
}

// ListMembers returns the group's membership rows. For private groups only
// the owner and members may look.
func (s *GroupService) ListMembers(ctx context.Context, groupID, callerID string) ([]models.Membership, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Privacy == models.PrivacyPrivate {
		hasRow, err := s.store.HasMember(ctx, groupID, callerID)
		if err != nil {
			return nil, apperr.Dependency("failed to check membership", err)
		}
		if !authz.IsMember(group, callerID, hasRow) {
			return nil, apperr.Unauthorized(apperr.CodeNotMember, "members only")
		}
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Dependency("failed to list members", err)
	}
	return members, nil
}

// CheckMembership reports the caller's relationship to the group.
func (s *GroupService) CheckMembership(ctx context.Context, groupID, callerID string) (*MembershipStatus, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	hasRow, err := s.store.HasMember(ctx, groupID, callerID)
	if err != nil {
		return nil, apperr.Dependency("failed to check membership", err)
	}

	status := &MembershipStatus{
		IsOwner:  authz.IsOwner(group, callerID),
		IsMember: authz.IsMember(group, callerID, hasRow),
	}

	if !status.IsMember && group.Privacy == models.PrivacyPrivate {
		pending, err := s.store.ListJoinRequests(ctx, groupID, models.RequestPending)
		if err != nil {
			return nil, apperr.Dependency("failed to list join requests", err)
		}
		for _, req := range pending {
			if req.UserID == callerID {
				status.Requested = true
				break
			}
		}
	}

	return status, nil
}

// ListJoinRequests returns the group's pending requests. Owner only.
func (s *GroupService) ListJoinRequests(ctx context.Context, groupID, callerID string) ([]*models.JoinRequest, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwner(group, callerID) {
		return nil, apperr.Unauthorized(apperr.CodeNotOwner, "only the owner may list join requests")
	}

	requests, err := s.store.ListJoinRequests(ctx, groupID, models.RequestPending)
	if err != nil {
		return nil, apperr.Dependency("failed to list join requests", err)
	}
	return requests, nil
}

// ReportGroup files a moderation report against the group. The owner may
// not report their own group; a user may report a group once.
func (s *GroupService) ReportGroup(ctx context.Context, groupID, callerID, reason, details string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if authz.IsOwner(group, callerID) {
		return apperr.Unauthorized(apperr.CodeReportOwn, "cannot report your own group")
	}
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("report reason is required")
	}

	report := &models.Report{
		TargetKind: models.ReportTargetGroup,
		TargetID:   groupID,
		ReporterID: callerID,
		Reason:     reason,
		Details:    details,
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.InvalidState(apperr.CodeAlreadyReported, "already reported this group")
		}
		return apperr.Dependency("failed to create report", err)
	}

	return nil
}

// ReconcileMemberCounts recomputes every group's member counter from its
// membership rows. Out-of-band maintenance, never on the hot path.
func (s *GroupService) ReconcileMemberCounts(ctx context.Context) (int, error) {
	fixed, err := s.store.ReconcileMemberCounts(ctx)
	if err != nil {
		return 0, apperr.Dependency("failed to reconcile member counts", err)
	}
	if fixed > 0 {
		slog.Warn("member counters reconciled", "groups_corrected", fixed)
	}
	return fixed, nil
}

func (s *GroupService) getGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("group")
		}
		return nil, apperr.Dependency("failed to get group", err)
	}
	return group, nil
}

// getOwnedRequest resolves the guard shared by accept and reject: the
// caller owns the group, the request exists, belongs to this group, and is
// still pending.
func (s *GroupService) getOwnedRequest(ctx context.Context, groupID, requestID, callerID string) (*models.Group, *models.JoinRequest, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.IsOwner(group, callerID) {
		return nil, nil, apperr.Unauthorized(apperr.CodeNotOwner, "only the owner may process join requests")
	}

	req, err := s.store.GetJoinRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, apperr.NotFound("join request")
		}
		return nil, nil, apperr.Dependency("failed to get join request", err)
	}
	if req.GroupID != groupID {
		return nil, nil, apperr.NotFound("join request")
	}
	if req.Status != models.RequestPending {
		return nil, nil, apperr.InvalidState(apperr.CodeAlreadyProcessed, "request already processed")
	}

	return group, req, nil
}
