// AuthService sits between the HTTP handlers and the storage/session layers:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository
//	                   ↘ auth.SessionStore (bearer tokens)
//
// Credentials are compared verbatim; the stored password is whatever the
// user registered with.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionStore
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
//
// DEPENDENCY INJECTION:
// The service receives its repository, session store and logger instead
// of building them. server.New decides between the memory and sqlite
// backends, and tests pass in-memory fakes. Nothing here changes.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult bundles the user and the freshly issued session token.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a user and opens a session for it.
//
// Errors: InvalidArgument when a field is empty, AlreadyExists when the
// email (checked first) or username is taken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperror.InvalidArgument("", "All fields are required")
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: in.Password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("opening session for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login opens a new session for the user with the given credentials.
//
// An unknown email and a wrong password produce the same Unauthenticated
// error so callers cannot tell which one was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.InvalidArgument("", "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user.Password != password {
		return nil, errInvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("opening session for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes token. Revoking a token twice is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) {
	s.sessions.Revoke(ctx, token)
}

func errInvalidCredentials() *apperror.AppError {
	return apperror.Unauthenticated("Invalid email or password")
}
