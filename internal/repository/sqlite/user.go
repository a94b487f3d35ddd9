package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the users table view of DB.
type UserDB struct {
	conn *sql.DB
}

// Create inserts user and sets user.ID.
//
// The email and username checks run inside the same transaction as the
// INSERT so the conflicting field can be reported, email first. The UNIQUE
// constraints remain as a backstop.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	tx, err := u.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning user insert: %w", err)
	}
	defer tx.Rollback()

	taken, err := exists(ctx, tx, `SELECT COUNT(*) FROM users WHERE email = ?`, user.Email)
	if err != nil {
		return fmt.Errorf("sqlite: checking email: %w", err)
	}
	if taken {
		return apperror.AlreadyExists("email", "Email already registered")
	}

	taken, err = exists(ctx, tx, `SELECT COUNT(*) FROM users WHERE username = ?`, user.Username)
	if err != nil {
		return fmt.Errorf("sqlite: checking username: %w", err)
	}
	if taken {
		return apperror.AlreadyExists("username", "Username already taken")
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password) VALUES (?, ?, ?)`,
		user.Username, user.Email, user.Password,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user insert: %w", err)
	}

	user.ID = id
	return nil
}

func (u *UserDB) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return u.findOne(ctx, `WHERE id = ?`, id, strconv.FormatInt(id, 10))
}

func (u *UserDB) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.findOne(ctx, `WHERE email = ?`, email, email)
}

func (u *UserDB) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.findOne(ctx, `WHERE username = ?`, username, username)
}

func (u *UserDB) findOne(ctx context.Context, where string, arg any, key string) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password FROM users `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User", key)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", key, err)
	}

	return &user, nil
}

func exists(ctx context.Context, tx *sql.Tx, query string, arg any) (bool, error) {
	var count int
	if err := tx.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
