package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// memUserStorage is an in-memory UserStorage keyed by email.
type memUserStorage struct {
	users map[string]*models.User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[string]*models.User)}
}

func (m *memUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return storage.ErrDuplicate
	}
	m.users[user.Email] = user
	return nil
}

func (m *memUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newMemUserStorage())
	ctx := context.Background()

	if _, err := a.Register(ctx, "a@example.com", "A", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password: expected ErrWeakPassword, got %v", err)
	}

	user, err := a.Register(ctx, "a@example.com", "A", "long enough password")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "long enough password" {
		t.Error("password stored unhashed")
	}

	if _, err := a.Register(ctx, "a@example.com", "A2", "another password"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email: expected ErrEmailExists, got %v", err)
	}

	got, err := a.Authenticate(ctx, "a@example.com", "long enough password")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	if _, err := a.Authenticate(ctx, "a@example.com", "wrong password!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "long enough password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "a@example.com"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := manager.Validate(token + "tampered"); err == nil {
		t.Error("expected tampered token to fail validation")
	}

	other := NewJWTManager("different-secret", time.Hour)
	if _, err := other.Validate(token); err == nil {
		t.Error("expected token signed with another secret to fail")
	}
}

func TestExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)
	token, err := manager.Generate(&models.User{ID: "u1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := manager.Validate(token); err == nil {
		t.Error("expected expired token to fail validation")
	}
}
