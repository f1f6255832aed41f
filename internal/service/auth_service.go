package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/auth"
	"github.com/skillery/backend/internal/models"
)

// AuthService handles registration and login, minting the JWTs that carry
// the caller identity through the rest of the API.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// AuthResult carries the minted token and the user it belongs to.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if displayName == "" {
		return nil, apperr.Validation("display name is required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, apperr.Validation(err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			return nil, apperr.InvalidState(apperr.CodeEmailExists, "email already registered")
		default:
			return nil, apperr.Dependency("failed to register user", err)
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, apperr.Dependency("failed to generate token", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and mints a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeBadCredentials, "invalid email or password")
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, apperr.Dependency("failed to generate token", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}
