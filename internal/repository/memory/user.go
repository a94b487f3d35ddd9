package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.UserRepository = (*Users)(nil)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu     sync.RWMutex
	users  []model.User
	nextID int64
}

// NewUsers returns an empty repository whose first user gets ID 1.
func NewUsers() *Users {
	return &Users{nextID: 1}
}

func (r *Users) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.AlreadyExists("email", "Email already registered")
		}
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperror.AlreadyExists("username", "Username already taken")
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *Users) FindByID(_ context.Context, id int64) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id }, strconv.FormatInt(id, 10))
}

func (r *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email }, email)
}

func (r *Users) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username }, username)
}

func (r *Users) find(match func(*model.User) bool, key string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if match(&r.users[i]) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("User", key)
}
