// Package repository declares the storage contracts for users and posts.
//
// Two implementations exist: repository/memory (the default, process-lifetime
// slices) and repository/sqlite (the same contract over database/sql).
// Services depend only on these interfaces.
package repository

import (
	"context"

	"github.com/sakif/blog-api/internal/model"
)

// PostFilter restricts List and Search results.
// An empty Category or model.AllCategories means no filter.
type PostFilter struct {
	Category string
}

// Matches reports whether p passes the filter.
func (f PostFilter) Matches(p *model.Post) bool {
	if f.Category == "" || f.Category == model.AllCategories {
		return true
	}
	return p.Category == f.Category
}

// UserRepository stores registered users. Users are never deleted.
type UserRepository interface {
	// Create assigns user.ID. It fails with apperror.ErrAlreadyExists when
	// the email (checked first) or the username is taken.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// PostRepository stores posts. Returned posts are copies; mutating them
// does not change stored state until Update is called.
type PostRepository interface {
	// Create assigns post.ID from a monotonically increasing sequence.
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List returns posts ordered by CreatedAt, newest first.
	List(ctx context.Context, filter PostFilter) ([]model.Post, error)
	// Search matches query case-insensitively against title or content and
	// preserves insertion order.
	Search(ctx context.Context, query string, filter PostFilter) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}
