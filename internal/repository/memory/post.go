package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.PostRepository = (*Posts)(nil)

// Posts is an in-memory repository.PostRepository. The slice keeps
// insertion order; List sorts a copy at read time.
type Posts struct {
	mu     sync.RWMutex
	posts  []model.Post
	nextID int64
}

// NewPosts returns an empty repository whose first post gets ID 1.
// IDs are never reused after a delete.
func NewPosts() *Posts {
	return &Posts{nextID: 1}
}

func (r *Posts) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID
	r.nextID++
	r.posts = append(r.posts, clonePost(post))
	return nil
}

func (r *Posts) GetByID(_ context.Context, id int64) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, apperror.NotFound("Post", strconv.FormatInt(id, 10))
	}
	p := clonePost(&r.posts[i])
	return &p, nil
}

func (r *Posts) List(_ context.Context, filter repository.PostFilter) ([]model.Post, error) {
	r.mu.RLock()
	out := r.collect(func(p *model.Post) bool { return filter.Matches(p) })
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (r *Posts) Search(_ context.Context, query string, filter repository.PostFilter) ([]model.Post, error) {
	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p *model.Post) bool {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Content), q) {
			return false
		}
		return filter.Matches(p)
	}), nil
}

func (r *Posts) Update(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(post.ID)
	if i < 0 {
		return apperror.NotFound("Post", strconv.FormatInt(post.ID, 10))
	}
	updated := clonePost(post)
	// Ownership and creation time are fixed at Create.
	updated.AuthorID = r.posts[i].AuthorID
	updated.CreatedAt = r.posts[i].CreatedAt
	r.posts[i] = updated
	return nil
}

func (r *Posts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return apperror.NotFound("Post", strconv.FormatInt(id, 10))
	}
	r.posts = append(r.posts[:i], r.posts[i+1:]...)
	return nil
}

// indexOf must be called with r.mu held.
func (r *Posts) indexOf(id int64) int {
	for i := range r.posts {
		if r.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// collect must be called with r.mu held.
func (r *Posts) collect(keep func(*model.Post) bool) []model.Post {
	out := make([]model.Post, 0, len(r.posts))
	for i := range r.posts {
		if keep(&r.posts[i]) {
			out = append(out, clonePost(&r.posts[i]))
		}
	}
	return out
}

// clonePost copies p including the UpdatedAt pointee so callers never
// share memory with the repository.
func clonePost(p *model.Post) model.Post {
	c := *p
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}
