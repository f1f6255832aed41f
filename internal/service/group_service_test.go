package service

import (
	"context"
	"testing"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/models"
)

func TestCreateGroupValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")

	if _, err := env.groups.CreateGroup(ctx, owner.ID, "  ", "", models.PrivacyPublic); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("blank name: expected validation error, got %v", err)
	}
	if _, err := env.groups.CreateGroup(ctx, owner.ID, "Pottery", "", "secret"); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("bad privacy: expected validation error, got %v", err)
	}

	group, err := env.groups.CreateGroup(ctx, owner.ID, "Pottery", "wheel throwing", models.PrivacyPublic)
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Error("expected generated group ID")
	}
	if group.MemberCount != 0 {
		t.Errorf("expected member count 0, got %d", group.MemberCount)
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestJoinPublicGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPublic)

	if err := env.groups.Join(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 1 {
		t.Errorf("expected member count 1, got %d", got)
	}

	// Joining twice is rejected without touching the counter.
	err := env.groups.Join(ctx, group.ID, alice.ID)
	if apperr.CodeOf(err) != apperr.CodeAlreadyMember {
		t.Errorf("duplicate join: expected already_member, got %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 1 {
		t.Errorf("after duplicate join: expected member count 1, got %d", got)
	}
}

func TestJoinPrivateGroupRequiresRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	err := env.groups.Join(ctx, group.ID, alice.ID)
	if apperr.CodeOf(err) != apperr.CodePrivacyMismatch {
		t.Errorf("direct join on private group: expected privacy_mismatch, got %v", err)
	}

	// And the mirror image: requesting to join a public group.
	public := env.createGroup(t, owner.ID, models.PrivacyPublic)
	_, err = env.groups.RequestJoin(ctx, public.ID, alice.ID)
	if apperr.CodeOf(err) != apperr.CodePrivacyMismatch {
		t.Errorf("request on public group: expected privacy_mismatch, got %v", err)
	}
}

func TestOwnerIsImplicitMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPublic)

	if err := env.groups.Join(ctx, group.ID, owner.ID); apperr.CodeOf(err) != apperr.CodeAlreadyMember {
		t.Errorf("owner join: expected already_member, got %v", err)
	}
	if err := env.groups.Leave(ctx, group.ID, owner.ID); apperr.CodeOf(err) != apperr.CodeOwnerCannotLeave {
		t.Errorf("owner leave: expected owner_cannot_leave, got %v", err)
	}

	status, err := env.groups.CheckMembership(ctx, group.ID, owner.ID)
	if err != nil {
		t.Fatalf("CheckMembership failed: %v", err)
	}
	if !status.IsOwner || !status.IsMember {
		t.Errorf("expected owner to be owner and member, got %+v", status)
	}
	// The owner never gets a membership row, so the counter excludes them.
	if got := env.memberCount(t, group.ID); got != 0 {
		t.Errorf("expected member count 0, got %d", got)
	}
}

func TestRequestAcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	req, err := env.groups.RequestJoin(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("expected pending request, got %s", req.Status)
	}

	// The owner hears about the request.
	events := env.sink.all()
	if len(events) != 1 || events[0].UserID != owner.ID || events[0].Type != models.NotifyJoinRequested {
		t.Errorf("expected join-request notification to owner, got %+v", events)
	}

	// A second request while one is pending is a duplicate.
	if _, err := env.groups.RequestJoin(ctx, group.ID, alice.ID); apperr.CodeOf(err) != apperr.CodeDuplicateRequest {
		t.Errorf("duplicate request: expected duplicate_request, got %v", err)
	}

	// Only the owner may process it.
	mallory := env.createUser(t, "mallory@example.com")
	if err := env.groups.AcceptRequest(ctx, group.ID, req.ID, mallory.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("non-owner accept: expected unauthorized, got %v", err)
	}

	env.sink.reset()
	if err := env.groups.AcceptRequest(ctx, group.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 1 {
		t.Errorf("after accept: expected member count 1, got %d", got)
	}

	events = env.sink.all()
	if len(events) != 1 || events[0].UserID != alice.ID || events[0].Type != models.NotifyRequestAccepted {
		t.Errorf("expected accepted notification to requester, got %+v", events)
	}

	// Accepting the same request again is a state error, not a double add.
	if err := env.groups.AcceptRequest(ctx, group.ID, req.ID, owner.ID); apperr.CodeOf(err) != apperr.CodeAlreadyProcessed {
		t.Errorf("second accept: expected already_processed, got %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 1 {
		t.Errorf("after second accept: expected member count 1, got %d", got)
	}
}

func TestRejectThenRerequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	req, err := env.groups.RequestJoin(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}

	env.sink.reset()
	if err := env.groups.RejectRequest(ctx, group.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 0 {
		t.Errorf("after reject: expected member count 0, got %d", got)
	}

	events := env.sink.all()
	if len(events) != 1 || events[0].UserID != alice.ID || events[0].Type != models.NotifyRequestRejected {
		t.Errorf("expected rejected notification to requester, got %+v", events)
	}

	// A rejection does not permanently block; a fresh request is allowed.
	req2, err := env.groups.RequestJoin(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("re-request after reject failed: %v", err)
	}
	if req2.ID == req.ID {
		t.Error("expected a fresh request, got the old one")
	}
}

func TestLeaveAndRerequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	req, err := env.groups.RequestJoin(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}
	if err := env.groups.AcceptRequest(ctx, group.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if err := env.groups.Leave(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 0 {
		t.Errorf("after leave: expected member count 0, got %d", got)
	}

	// Leaving twice is a state error.
	if err := env.groups.Leave(ctx, group.ID, alice.ID); apperr.CodeOf(err) != apperr.CodeNotMember {
		t.Errorf("double leave: expected not_member, got %v", err)
	}

	// Leave cleared the accepted request, so the full cycle can restart.
	if _, err := env.groups.RequestJoin(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("re-request after leave failed: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	bob := env.createUser(t, "bob@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPublic)

	if err := env.groups.Join(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := env.groups.RemoveMember(ctx, group.ID, alice.ID, bob.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("non-owner remove: expected unauthorized, got %v", err)
	}
	if err := env.groups.RemoveMember(ctx, group.ID, owner.ID, owner.ID); apperr.CodeOf(err) != apperr.CodeCannotRemoveOwn {
		t.Errorf("remove owner: expected cannot_remove_owner, got %v", err)
	}
	if err := env.groups.RemoveMember(ctx, group.ID, bob.ID, owner.ID); apperr.CodeOf(err) != apperr.CodeNotMember {
		t.Errorf("remove non-member: expected not_member, got %v", err)
	}

	env.sink.reset()
	if err := env.groups.RemoveMember(ctx, group.ID, alice.ID, owner.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if got := env.memberCount(t, group.ID); got != 0 {
		t.Errorf("after removal: expected member count 0, got %d", got)
	}

	events := env.sink.all()
	if len(events) != 1 || events[0].UserID != alice.ID || events[0].Type != models.NotifyMemberRemoved {
		t.Errorf("expected removal notification to alice, got %+v", events)
	}
}

func TestListMembersPrivacy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	outsider := env.createUser(t, "outsider@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	req, err := env.groups.RequestJoin(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}
	if err := env.groups.AcceptRequest(ctx, group.ID, req.ID, owner.ID); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	if _, err := env.groups.ListMembers(ctx, group.ID, outsider.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("outsider listing private members: expected unauthorized, got %v", err)
	}

	members, err := env.groups.ListMembers(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("ListMembers as member failed: %v", err)
	}
	if len(members) != 1 || members[0].UserID != alice.ID {
		t.Errorf("expected alice as the only member, got %+v", members)
	}
}

func TestCheckMembershipRequested(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	if _, err := env.groups.RequestJoin(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}

	status, err := env.groups.CheckMembership(ctx, group.ID, alice.ID)
	if err != nil {
		t.Fatalf("CheckMembership failed: %v", err)
	}
	if status.IsOwner || status.IsMember || !status.Requested {
		t.Errorf("expected pending-requester status, got %+v", status)
	}
}

func TestListJoinRequestsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPrivate)

	if _, err := env.groups.RequestJoin(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("RequestJoin failed: %v", err)
	}

	if _, err := env.groups.ListJoinRequests(ctx, group.ID, alice.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("non-owner listing requests: expected unauthorized, got %v", err)
	}

	requests, err := env.groups.ListJoinRequests(ctx, group.ID, owner.ID)
	if err != nil {
		t.Fatalf("ListJoinRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].UserID != alice.ID {
		t.Errorf("expected alice's pending request, got %+v", requests)
	}
}

func TestReportGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPublic)

	if err := env.groups.ReportGroup(ctx, group.ID, owner.ID, "spam", ""); apperr.CodeOf(err) != apperr.CodeReportOwn {
		t.Errorf("owner reporting own group: expected cannot_report_own, got %v", err)
	}
	if err := env.groups.ReportGroup(ctx, group.ID, alice.ID, "  ", ""); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("blank reason: expected validation error, got %v", err)
	}
	if err := env.groups.ReportGroup(ctx, group.ID, alice.ID, "spam", "selling ads"); err != nil {
		t.Fatalf("ReportGroup failed: %v", err)
	}
	if err := env.groups.ReportGroup(ctx, group.ID, alice.ID, "spam", ""); apperr.CodeOf(err) != apperr.CodeAlreadyReported {
		t.Errorf("second report: expected already_reported, got %v", err)
	}
}

func TestGroupNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice@example.com")

	if _, err := env.groups.GetGroup(ctx, "missing"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	if err := env.groups.Join(ctx, "missing", alice.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("join missing group: expected not found, got %v", err)
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	alice := env.createUser(t, "alice@example.com")
	group := env.createGroup(t, owner.ID, models.PrivacyPublic)

	if err := env.groups.Join(ctx, group.ID, alice.ID); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	post, err := env.posts.CreatePost(ctx, group.ID, alice.ID, "Dovetails", "", "how to cut them", nil)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := env.groups.DeleteGroup(ctx, group.ID, alice.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("non-owner delete: expected unauthorized, got %v", err)
	}
	if err := env.groups.DeleteGroup(ctx, group.ID, owner.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	if _, err := env.groups.GetGroup(ctx, group.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("group after delete: expected not found, got %v", err)
	}
	if _, err := env.posts.GetPost(ctx, post.ID, owner.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("post after group delete: expected not found, got %v", err)
	}
}
