package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
	"github.com/skillery/backend/internal/storage/sqlite"
)

// recordingSink captures emitted notifications so tests can assert on who
// was told what.
type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

type sinkEvent struct {
	UserID  string
	Type    string
	Message string
	RefID   string
}

func (s *recordingSink) Emit(ctx context.Context, userID, notifType, message, refID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, sinkEvent{UserID: userID, Type: notifType, Message: message, RefID: refID})
	return nil
}

func (s *recordingSink) all() []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sinkEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

type testEnv struct {
	store  storage.Store
	sink   *recordingSink
	groups *GroupService
	posts  *PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sink := &recordingSink{}
	return &testEnv{
		store:  store,
		sink:   sink,
		groups: NewGroupService(store, sink),
		posts:  NewPostService(store, sink),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, email, "hash")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createGroup(t *testing.T, ownerID, privacy string) *models.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(context.Background(), ownerID, "Woodworking", "hand tools only", privacy)
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func (e *testEnv) memberCount(t *testing.T, groupID string) int {
	t.Helper()
	group, err := e.store.GetGroup(context.Background(), groupID)
	if err != nil {
		t.Fatalf("failed to get group: %v", err)
	}
	return group.MemberCount
}
