// Package auth owns bearer-token sessions and the request guard built on them.
//
// AUTHENTICATION FLOW:
//  1. Register or login succeeds → SessionStore.Create mints a token
//  2. The client sends it back as "Authorization: Bearer <token>"
//  3. RequireAuth resolves the token to a user and stores it in the context
//  4. Logout revokes that one token; other sessions of the user stay live
//
// Sessions live in process memory only. A restart logs everyone out.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/blog-api/internal/apperror"
)

// maxIssueAttempts bounds the retry loop when an issued token collides with
// a live one.
const maxIssueAttempts = 3

var errTokenCollision = errors.New("auth: could not issue a unique token")

// Session is the server-side record behind a bearer token.
//
// Handle is a non-secret identifier (an xid) used in log lines so the
// token itself never reaches the logs.
type Session struct {
	Handle    xid.ID
	UserID    int64
	CreatedAt time.Time
}

// SessionStore maps bearer tokens to user ids.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	issuer   TokenIssuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionStore returns an empty store that mints tokens with issuer.
// Pass NewRandomIssuer() for opaque tokens or a *JWTIssuer for signed ones.
func NewSessionStore(issuer TokenIssuer, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		issuer:   issuer,
		logger:   logger,
		now:      time.Now,
	}
}

// Create issues a new token for userID and records it.
func (s *SessionStore) Create(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		token, err := s.issuer.Issue(userID)
		if err != nil {
			lastErr = err
			continue
		}
		if _, taken := s.sessions[token]; taken {
			continue
		}

		sess := Session{Handle: xid.New(), UserID: userID, CreatedAt: s.now()}
		s.sessions[token] = sess
		s.logger.Debug("session created",
			slog.String("session", sess.Handle.String()),
			slog.Int64("userID", userID),
		)
		return token, nil
	}

	if lastErr == nil {
		lastErr = errTokenCollision
	}
	return "", lastErr
}

// Resolve returns the user id behind token, or an Unauthenticated error.
//
// A token the issuer reports as expired is removed from the store, so
// sessions that outlive their token do not accumulate until logout.
func (s *SessionStore) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, apperror.Unauthenticated("Unauthorized")
	}
	if err := s.issuer.Verify(token); err != nil {
		if errors.Is(err, ErrTokenExpired) {
			s.Revoke(ctx, token)
		}
		return 0, apperror.Unauthenticated("Unauthorized")
	}

	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, apperror.Unauthenticated("Unauthorized")
	}
	return sess.UserID, nil
}

// Revoke forgets token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(_ context.Context, token string) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.logger.Debug("session revoked",
			slog.String("session", sess.Handle.String()),
			slog.Int64("userID", sess.UserID),
		)
	}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
