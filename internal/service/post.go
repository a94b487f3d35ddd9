// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces ownership, orchestrates
//	Repository (data layer)  → stores users and posts
//
// Services take repository interfaces, never a concrete store, and return
// apperror values that the handler maps to HTTP status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// PostService handles business logic for blog posts.
type PostService struct {
	repo   repository.PostRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a PostService over repo. Timestamps come from
// time.Now in UTC; tests replace the now field with a fixed clock.
func NewPostService(repo repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// PostInput holds the fields of a new post.
type PostInput struct {
	Title    string
	Content  string
	Category string
}

// PostPatch holds an edit. A nil field is left unchanged; an empty
// Category is treated the same as nil.
type PostPatch struct {
	Title    *string
	Content  *string
	Category *string
}

// Categories returns the fixed category enumeration.
func (s *PostService) Categories() []string {
	return model.Categories()
}

// List returns posts newest first, optionally restricted to one category.
func (s *PostService) List(ctx context.Context, category string) ([]model.Post, error) {
	posts, err := s.repo.List(ctx, repository.PostFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns a single post or apperror.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// Search returns the posts whose title or content contains query,
// case-insensitively, in the order they were created.
func (s *PostService) Search(ctx context.Context, query, category string) ([]model.Post, error) {
	posts, err := s.repo.Search(ctx, query, repository.PostFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}
	return posts, nil
}

// Create validates in and stores a post owned by owner.
func (s *PostService) Create(ctx context.Context, in PostInput, owner *model.User) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperror.InvalidArgument("", "Title and content are required")
	}
	if !model.IsCategory(in.Category) {
		return nil, apperror.InvalidArgument("category", "Valid category is required")
	}

	post := &model.Post{
		Title:     title,
		Content:   in.Content,
		Category:  in.Category,
		Author:    owner.Username,
		AuthorID:  owner.ID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("id", post.ID),
		slog.Int64("authorID", post.AuthorID),
		slog.String("category", post.Category),
	)
	return post, nil
}

// Update applies patch to post id on behalf of requester.
//
// Checks run in a fixed order: the post must exist (NotFound), requester
// must own it (Forbidden), then the patched fields must be valid
// (InvalidArgument). Nothing is written unless every check passes.
func (s *PostService) Update(ctx context.Context, id int64, patch PostPatch, requester *model.User) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(requester.ID) {
		return nil, apperror.Forbidden("You can only edit your own posts")
	}

	if patch.Title != nil {
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if post.Title == "" || strings.TrimSpace(post.Content) == "" {
		return nil, apperror.InvalidArgument("", "Title and content are required")
	}
	if patch.Category != nil && *patch.Category != "" {
		if !model.IsCategory(*patch.Category) {
			return nil, apperror.InvalidArgument("category", "Invalid category")
		}
		post.Category = *patch.Category
	}

	now := s.now()
	post.UpdatedAt = &now
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post %d: %w", id, err)
	}

	s.logger.Info("post updated", slog.Int64("id", post.ID))
	return post, nil
}

// Delete removes post id on behalf of requester: NotFound, then Forbidden.
func (s *PostService) Delete(ctx context.Context, id int64, requester *model.User) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.OwnedBy(requester.ID) {
		return apperror.Forbidden("You can only delete your own posts")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	s.logger.Info("post deleted", slog.Int64("id", id))
	return nil
}
