package pdfchat

import "context"

// Repo defines the append-only persistence contract for chat turns. Turns for
// one (user, file) pair are never reordered after insertion.
type Repo interface {
	// Append inserts one exchange and returns it with ID and timestamp.
	Append(ctx context.Context, t Turn) (Turn, error)
	// ListFiles returns the distinct files the user has conversed with,
	// most recently active first.
	ListFiles(ctx context.Context, userID string) ([]FileActivity, error)
	// ListTurns returns the full history for one file in ascending
	// creation order.
	ListTurns(ctx context.Context, userID, fileName string) ([]Turn, error)
}
