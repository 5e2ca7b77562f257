package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/feedline/backend/internal/domain/entity"
	"github.com/feedline/backend/internal/domain/repository"
)

// PostRepository stores the post aggregate as a single row with the embedded
// like and comment collections as JSONB. The aggregate is always read and
// written as a unit, so the row is the transactional boundary.
type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, user_id, author_name, author_avatar, text, likes, comments, created_at`

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	var likes, comments []byte
	if err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorAvatar,
		&p.Text, &likes, &comments, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(likes, &p.Likes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(comments, &p.Comments); err != nil {
		return nil, err
	}
	return p, nil
}

// validID reports whether id matches the store's id format. Anything else is
// treated as a lookup miss, never as a distinct error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	likes, err := json.Marshal(p.Likes)
	if err != nil {
		return err
	}
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, author_name, author_avatar, text, likes, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.AuthorID, p.AuthorName, p.AuthorAvatar, p.Text, likes, comments)
	return row.Scan(&p.CreatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, id)
	return scanPost(row)
}

func (r *PostRepository) ListAll(ctx context.Context) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Mutate applies fn to the aggregate inside a transaction. SELECT ... FOR
// UPDATE holds the row lock for the read-modify-write window, so concurrent
// Mutate calls on the same id are serialized while other ids stay
// independent. A fn error or ctx cancellation rolls the transaction back.
func (r *PostRepository) Mutate(ctx context.Context, id string, fn func(*entity.Post) error) (*entity.Post, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, err
	}

	if err := fn(p); err != nil {
		return nil, err
	}

	likes, err := json.Marshal(p.Likes)
	if err != nil {
		return nil, err
	}
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE posts
		SET text = $2, likes = $3, comments = $4
		WHERE id = $1
	`, p.ID, p.Text, likes, comments); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
