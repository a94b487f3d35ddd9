package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_ThenScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, f.users, f.posts))

	seeded, err := f.post.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, seeded, 2)

	_, err = f.auth.Login(ctx, "admin@blog.com", "admin123")
	require.NoError(t, err)

	alice := mustUser(t, f, "alice")
	p, err := f.post.Create(ctx, PostInput{Title: "Hi", Content: "World", Category: "Other"}, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, alice.ID, p.AuthorID)

	all, err := f.post.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, all[0].ID, "new post is listed first")

	bob := mustUser(t, f, "bob")
	_, err = f.post.Update(ctx, p.ID, PostPatch{Title: ptr("mine now")}, bob)
	assert.Error(t, err)
}

func TestSeed_RejectsNonEmptyRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, f.users, f.posts))
	assert.Error(t, Seed(ctx, f.users, f.posts), "admin already exists")
}
