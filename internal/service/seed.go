package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// Seed loads the starter content a fresh instance ships with: an admin
// account and two posts. It must run against empty repositories, so the
// admin gets id 1 and the next post id is 3.
func Seed(ctx context.Context, users repository.UserRepository, posts repository.PostRepository) error {
	admin := &model.User{
		Username: "admin",
		Email:    "admin@blog.com",
		Password: "admin123",
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	now := time.Now().UTC()
	starters := []model.Post{
		{
			Title:    "Welcome to the Blog",
			Content:  "This is your first blog post. Start creating amazing content!",
			Category: "Other",
		},
		{
			Title:    "Getting Started with React",
			Content:  "React is a powerful JavaScript library for building user interfaces. Let's explore its features...",
			Category: "Technology",
		},
	}
	for i := range starters {
		p := &starters[i]
		p.Author = admin.Username
		p.AuthorID = admin.ID
		p.CreatedAt = now
		if err := posts.Create(ctx, p); err != nil {
			return fmt.Errorf("seeding post %q: %w", p.Title, err)
		}
	}
	return nil
}
