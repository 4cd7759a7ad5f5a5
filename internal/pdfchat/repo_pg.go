package pdfchat

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts one exchange.
func (r *PGRepo) Append(ctx context.Context, t Turn) (Turn, error) {
	const query = `
INSERT INTO pdf_chats (user_id, file_name, user_message, ai_response)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		t.UserID,
		t.FileName,
		t.UserMessage,
		t.AIResponse,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return Turn{}, err
	}
	return t, nil
}

// ListFiles returns the user's conversations, most recently active first.
func (r *PGRepo) ListFiles(ctx context.Context, userID string) ([]FileActivity, error) {
	const query = `
SELECT file_name, MAX(created_at) AS last_message_at, COUNT(*) AS turns
FROM pdf_chats
WHERE user_id = $1
GROUP BY file_name
ORDER BY last_message_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileActivity
	for rows.Next() {
		var f FileActivity
		if err := rows.Scan(&f.FileName, &f.LastMessageAt, &f.Turns); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListTurns returns the full history for one file in ascending creation order.
func (r *PGRepo) ListTurns(ctx context.Context, userID, fileName string) ([]Turn, error) {
	const query = `
SELECT id, user_id, file_name, user_message, ai_response, created_at
FROM pdf_chats
WHERE user_id = $1 AND file_name = $2
ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, fileName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.FileName, &t.UserMessage, &t.AIResponse, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
