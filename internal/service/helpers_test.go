package service

import (
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fixture wires both services over fresh in-memory repositories.
type fixture struct {
	users    *memory.Users
	posts    *memory.Posts
	sessions *auth.SessionStore
	auth     *AuthService
	post     *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.NewUsers(),
		posts:    memory.NewPosts(),
		sessions: auth.NewSessionStore(auth.NewRandomIssuer(), testLogger()),
	}
	f.auth = NewAuthService(f.users, f.sessions, testLogger())
	f.post = NewPostService(f.posts, testLogger())
	return f
}
