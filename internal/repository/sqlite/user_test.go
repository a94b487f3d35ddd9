package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
)

// newTestDB opens a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, u *UserDB, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Password: "secret1"}
	require.NoError(t, u.Create(context.Background(), user))
	return user
}

func TestUserCreate(t *testing.T) {
	u := newTestDB(t).Users()

	alice := createTestUser(t, u, "alice", "alice@x.com")
	bob := createTestUser(t, u, "bob", "bob@x.com")

	assert.Equal(t, int64(1), alice.ID)
	assert.Equal(t, int64(2), bob.ID)
}

func TestUserCreate_Duplicates(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		wantField string
	}{
		{"duplicate email", "other", "alice@x.com", "email"},
		{"duplicate username", "alice", "other@x.com", "username"},
		{"both duplicate reports email first", "alice", "alice@x.com", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestDB(t).Users()
			createTestUser(t, u, "alice", "alice@x.com")

			err := u.Create(context.Background(), &model.User{Username: tt.username, Email: tt.email, Password: "x"})
			require.ErrorIs(t, err, apperror.ErrAlreadyExists)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Field)
		})
	}
}

func TestUserFind(t *testing.T) {
	u := newTestDB(t).Users()
	alice := createTestUser(t, u, "alice", "alice@x.com")
	ctx := context.Background()

	found, err := u.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, *alice, *found)

	found, err = u.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "secret1", found.Password)

	found, err = u.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = u.FindByID(ctx, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = u.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
