package creations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new creation.
func (r *PGRepo) Create(ctx context.Context, cr Creation) (Creation, error) {
	const query = `
INSERT INTO creations (user_id, prompt, content, type, publish, likes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	likes, err := marshalLikes(cr.Likes)
	if err != nil {
		return Creation{}, err
	}
	err = r.DB.QueryRowContext(ctx, query,
		cr.UserID,
		cr.Prompt,
		cr.Content,
		cr.Type,
		cr.Publish,
		likes,
	).Scan(&cr.ID, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		return Creation{}, err
	}
	return cr, nil
}

// ListByUser returns the user's creations, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	const query = `
SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
FROM creations
WHERE user_id = $1
ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListPublished returns published creations, newest first.
func (r *PGRepo) ListPublished(ctx context.Context) ([]Creation, error) {
	const query = `
SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
FROM creations
WHERE publish
ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ToggleLike flips userID's membership in the likes set.
func (r *PGRepo) ToggleLike(ctx context.Context, id int64, userID string) (Creation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Creation{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var cr Creation
	var rawLikes []byte
	row := tx.QueryRowContext(ctx, `
SELECT id, user_id, prompt, content, type, publish, likes, created_at, updated_at
FROM creations WHERE id = $1 FOR UPDATE`, id)
	err = row.Scan(&cr.ID, &cr.UserID, &cr.Prompt, &cr.Content, &cr.Type, &cr.Publish, &rawLikes, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return Creation{}, err
	}
	if err = json.Unmarshal(rawLikes, &cr.Likes); err != nil {
		err = fmt.Errorf("decode likes: %w", err)
		return Creation{}, err
	}

	cr.Likes = toggle(cr.Likes, userID)

	likes, err := marshalLikes(cr.Likes)
	if err != nil {
		return Creation{}, err
	}
	err = tx.QueryRowContext(ctx, `
UPDATE creations SET likes = $1, updated_at = NOW() WHERE id = $2
RETURNING updated_at`, likes, id).Scan(&cr.UpdatedAt)
	if err != nil {
		return Creation{}, err
	}
	if err = tx.Commit(); err != nil {
		return Creation{}, err
	}
	return cr, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Creation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Creation
	for rows.Next() {
		var cr Creation
		var rawLikes []byte
		if err := rows.Scan(&cr.ID, &cr.UserID, &cr.Prompt, &cr.Content, &cr.Type, &cr.Publish, &rawLikes, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawLikes, &cr.Likes); err != nil {
			return nil, fmt.Errorf("decode likes: %w", err)
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func marshalLikes(likes []string) ([]byte, error) {
	if likes == nil {
		likes = []string{}
	}
	return json.Marshal(likes)
}

func toggle(likes []string, userID string) []string {
	for i, id := range likes {
		if id == userID {
			return append(likes[:i], likes[i+1:]...)
		}
	}
	return append(likes, userID)
}

var _ Repo = (*PGRepo)(nil)
