package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/blog-api/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY NOT A PLAIN STRING KEY?
// context.WithValue compares keys by type and value. A string key such as
// "user" can be read or overwritten by any package that happens to pick
// the same string. A key of an unexported type can only be built here, so
// UserFromContext and TokenFromContext are the only way in.
type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

const bearerPrefix = "Bearer "

// unauthorizedBody matches the error shape written by the handler package.
const unauthorizedBody = `{"error":"Unauthorized","code":"unauthenticated"}` + "\n"

// SessionResolver resolves a bearer token to a user id.
// *SessionStore implements it; tests substitute their own.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// UserFinder loads a user by id. Both user repositories implement it, and
// only this one method is needed here.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads "Authorization: Bearer <token>", resolves the token through
// sessions, loads the user and stores both the user and the raw token in
// the request context. Any failure stops the chain with 401.
//
// REQUEST FLOW:
//
//	Authorization header ──► BearerToken ──► SessionResolver.Resolve
//	                                               │ user id
//	                                               ▼
//	handler ◄── WithUser(ctx) ◄── UserFinder.FindByID
//
// The raw token travels with the user so that logout can revoke exactly
// the session that made the request.
//
// BEARER HEADER, NOT A COOKIE:
// The front end keeps the token in its own state and sends it as a
// header. With no cookie involved, browsers never attach credentials on
// their own, and CORS can stay open to every origin.
//
// Users are never deleted, so a resolved id always has a user. If the
// lookup fails anyway the session is treated as stale and the request is
// rejected the same way as an unknown token.
func RequireAuth(sessions SessionResolver, users UserFinder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			userID, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				logger.Warn("session refers to unknown user",
					slog.Int64("userID", userID),
					slog.String("error", err.Error()),
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It reports false when the header is absent, uses another scheme
// or carries an empty token.
func BearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// TokenFromContext returns the bearer token that authenticated the request.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey).(string)
	return t, ok && t != ""
}

// WithUser returns a copy of ctx carrying the authenticated user and token.
func WithUser(ctx context.Context, user *model.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// writeUnauthorized writes the 401 body directly. auth cannot import
// handler (handler imports auth), so the JSON is a constant kept in sync
// with handler.ErrorResponse.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
