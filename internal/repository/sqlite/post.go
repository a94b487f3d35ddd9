package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

var _ repository.PostRepository = (*PostDB)(nil)

const postColumns = `id, title, content, category, author, author_id, created_at, updated_at`

// PostDB is the posts table view of DB.
type PostDB struct {
	conn *sql.DB
}

// Create inserts post and sets post.ID. AUTOINCREMENT guarantees ids are
// never reused, even after deletes.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	res, err := p.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, category, author, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.Category,
		post.Author,
		post.AuthorID,
		toNanos(post.CreatedAt),
		nullableNanos(post),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading post id: %w", err)
	}
	post.ID = id
	return nil
}

func (p *PostDB) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	row := p.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id,
	)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Post", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}
	return post, nil
}

// List returns posts newest first. id ASC breaks created_at ties the same
// way the in-memory repository does: insertion order.
func (p *PostDB) List(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	where, args := categoryClause(filter, nil)
	return p.query(ctx,
		`SELECT `+postColumns+` FROM posts`+where+` ORDER BY created_at DESC, id ASC`,
		args...,
	)
}

// Search matches query against title or content. SQLite's lower() folds
// ASCII only, so non-ASCII letters match case-sensitively here.
func (p *PostDB) Search(ctx context.Context, query string, filter repository.PostFilter) ([]model.Post, error) {
	q := strings.ToLower(query)
	conds := []string{`(instr(lower(title), ?) > 0 OR instr(lower(content), ?) > 0)`}
	where, args := categoryClause(filter, conds, q, q)
	return p.query(ctx,
		`SELECT `+postColumns+` FROM posts`+where+` ORDER BY id ASC`,
		args...,
	)
}

// Update rewrites the mutable columns. author_id and created_at are never
// touched.
func (p *PostDB) Update(ctx context.Context, post *model.Post) error {
	result, err := p.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, category = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Category,
		nullableNanos(post),
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Post", strconv.FormatInt(post.ID, 10))
	}
	return nil
}

func (p *PostDB) Delete(ctx context.Context, id int64) error {
	result, err := p.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Post", strconv.FormatInt(id, 10))
	}
	return nil
}

func (p *PostDB) query(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := p.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}
	return posts, nil
}

// categoryClause appends the category condition to conds when filter is
// active and renders a WHERE clause. args are the placeholders already
// referenced by conds.
func categoryClause(filter repository.PostFilter, conds []string, args ...any) (string, []any) {
	if filter.Category != "" && filter.Category != model.AllCategories {
		conds = append(conds, `category = ?`)
		args = append(args, filter.Category)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*model.Post, error) {
	var (
		post      model.Post
		createdAt int64
		updatedAt sql.NullInt64
	)
	if err := s.Scan(
		&post.ID, &post.Title, &post.Content, &post.Category,
		&post.Author, &post.AuthorID, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	post.CreatedAt = fromNanos(createdAt)
	if updatedAt.Valid {
		t := fromNanos(updatedAt.Int64)
		post.UpdatedAt = &t
	}
	return &post, nil
}

func nullableNanos(post *model.Post) sql.NullInt64 {
	if post.UpdatedAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*post.UpdatedAt), Valid: true}
}
