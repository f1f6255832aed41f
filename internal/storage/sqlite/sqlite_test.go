package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedGroup(t *testing.T, store *SQLiteStore, privacy string) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Lathe club", Privacy: privacy, OwnerID: "owner-1"}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func seedPost(t *testing.T, store *SQLiteStore, groupID string) *models.Post {
	t.Helper()
	post := &models.Post{GroupID: groupID, AuthorID: "author-1", Title: "Chisels", Content: "flatten the back first"}
	if err := store.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	return post
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateUser(ctx, models.NewUser("a@example.com", "A", "hash")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	err := store.CreateUser(ctx, models.NewUser("a@example.com", "A again", "hash"))
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate email: expected ErrDuplicate, got %v", err)
	}

	if _, err := store.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing email: expected ErrNotFound, got %v", err)
	}
}

func TestMembershipCounterStaysPaired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPublic)

	if err := store.AddMember(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.AddMember(ctx, group.ID, "bob"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Duplicate insert hits the pair primary key; the counter is untouched.
	if err := store.AddMember(ctx, group.ID, "alice"); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate member: expected ErrDuplicate, got %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.MemberCount != 2 {
		t.Errorf("expected member count 2, got %d", got.MemberCount)
	}

	if err := store.RemoveMember(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if err := store.RemoveMember(ctx, group.ID, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double remove: expected ErrNotFound, got %v", err)
	}

	got, err = store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.MemberCount != 1 {
		t.Errorf("expected member count 1, got %d", got.MemberCount)
	}
}

func TestReconcileMemberCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPublic)

	if err := store.AddMember(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Inject drift directly, as a crashed process between writes would.
	if _, err := store.db.ExecContext(ctx, `UPDATE groups SET member_count = 7 WHERE id = ?`, group.ID); err != nil {
		t.Fatalf("failed to inject drift: %v", err)
	}

	fixed, err := store.ReconcileMemberCounts(ctx)
	if err != nil {
		t.Fatalf("ReconcileMemberCounts failed: %v", err)
	}
	if fixed != 1 {
		t.Errorf("expected 1 corrected group, got %d", fixed)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.MemberCount != 1 {
		t.Errorf("expected reconciled count 1, got %d", got.MemberCount)
	}

	// A second sweep finds nothing to fix.
	fixed, err = store.ReconcileMemberCounts(ctx)
	if err != nil {
		t.Fatalf("ReconcileMemberCounts failed: %v", err)
	}
	if fixed != 0 {
		t.Errorf("expected 0 corrections on clean data, got %d", fixed)
	}
}

func TestJoinRequestPendingUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPrivate)

	req := &models.JoinRequest{GroupID: group.ID, UserID: "alice"}
	if err := store.CreateJoinRequest(ctx, req); err != nil {
		t.Fatalf("CreateJoinRequest failed: %v", err)
	}

	// A second pending request for the pair violates the partial index.
	dup := &models.JoinRequest{GroupID: group.ID, UserID: "alice"}
	if err := store.CreateJoinRequest(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate pending request: expected ErrDuplicate, got %v", err)
	}

	if err := store.ResolveJoinRequest(ctx, req.ID, models.RequestRejected); err != nil {
		t.Fatalf("ResolveJoinRequest failed: %v", err)
	}

	// Resolving is single-shot; the guarded update misses the second time.
	if err := store.ResolveJoinRequest(ctx, req.ID, models.RequestAccepted); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double resolve: expected ErrNotFound, got %v", err)
	}

	// Once resolved, a fresh pending request replaces the history row.
	again := &models.JoinRequest{GroupID: group.ID, UserID: "alice"}
	if err := store.CreateJoinRequest(ctx, again); err != nil {
		t.Fatalf("re-request after resolve failed: %v", err)
	}

	pending, err := store.ListJoinRequests(ctx, group.ID, models.RequestPending)
	if err != nil {
		t.Fatalf("ListJoinRequests failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != again.ID {
		t.Errorf("expected only the fresh pending request, got %+v", pending)
	}
}

func TestReactionSwapIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPublic)
	post := seedPost(t, store, group.ID)

	if err := store.AddReaction(ctx, post.ID, "alice", models.ReactionLike); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}
	if err := store.AddReaction(ctx, post.ID, "alice", models.ReactionLike); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate like: expected ErrDuplicate, got %v", err)
	}

	// Adding the opposite reaction removes the first in the same tx.
	if err := store.AddReaction(ctx, post.ID, "alice", models.ReactionDislike); err != nil {
		t.Fatalf("swap to dislike failed: %v", err)
	}

	got, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.LikeCount != 0 || got.DislikeCount != 1 {
		t.Errorf("after swap: expected likes=0 dislikes=1, got likes=%d dislikes=%d", got.LikeCount, got.DislikeCount)
	}

	if err := store.RemoveReaction(ctx, post.ID, "alice", models.ReactionLike); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("remove absent like: expected ErrNotFound, got %v", err)
	}
	if err := store.RemoveReaction(ctx, post.ID, "alice", models.ReactionDislike); err != nil {
		t.Fatalf("RemoveReaction failed: %v", err)
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPublic)
	post := seedPost(t, store, group.ID)

	if err := store.AddMember(ctx, group.ID, "alice"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	comment := &models.Comment{PostID: post.ID, AuthorID: "alice", Content: "nice"}
	if err := store.CreateComment(ctx, comment); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if err := store.AddReaction(ctx, post.ID, "alice", models.ReactionLike); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}

	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("group after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetPost(ctx, post.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("post after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetComment(ctx, comment.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("comment after delete: expected ErrNotFound, got %v", err)
	}
	if has, err := store.HasMember(ctx, group.ID, "alice"); err != nil || has {
		t.Errorf("membership after delete: expected gone, got has=%v err=%v", has, err)
	}
}

func TestReportUniquePerReporter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := seedGroup(t, store, models.PrivacyPublic)

	report := &models.Report{TargetKind: models.ReportTargetGroup, TargetID: group.ID, ReporterID: "alice", Reason: "spam"}
	if err := store.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	dup := &models.Report{TargetKind: models.ReportTargetGroup, TargetID: group.ID, ReporterID: "alice", Reason: "spam again"}
	if err := store.CreateReport(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate report: expected ErrDuplicate, got %v", err)
	}

	// Same reporter, different target kind is a distinct report.
	post := seedPost(t, store, group.ID)
	other := &models.Report{TargetKind: models.ReportTargetPost, TargetID: post.ID, ReporterID: "alice", Reason: "spam"}
	if err := store.CreateReport(ctx, other); err != nil {
		t.Errorf("report on different target failed: %v", err)
	}

	reports, err := store.ListReports(ctx, models.ReportTargetGroup, group.ID)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("expected 1 group report, got %d", len(reports))
	}
}

func TestNotificationsFeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.Notification{UserID: "alice", Type: models.NotifyPostLiked, Message: "someone liked your post"}
	if err := store.CreateNotification(ctx, first); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}
	second := &models.Notification{UserID: "alice", Type: models.NotifyPostCommented, Message: "new comment", RefID: "post-1"}
	if err := store.CreateNotification(ctx, second); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	list, err := store.ListNotifications(ctx, "alice")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}

	if err := store.MarkNotificationRead(ctx, first.ID, "alice"); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	// Marking someone else's notification misses the user filter.
	if err := store.MarkNotificationRead(ctx, second.ID, "bob"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-user mark: expected ErrNotFound, got %v", err)
	}
}
