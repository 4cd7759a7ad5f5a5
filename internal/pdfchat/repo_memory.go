package pdfchat

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string][]Turn // userID -> turns in append order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Turn)}
}

// Append inserts one exchange.
func (r *MemoryRepo) Append(ctx context.Context, t Turn) (Turn, error) {
	if err := ctx.Err(); err != nil {
		return Turn{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now().UTC()
	r.data[t.UserID] = append(r.data[t.UserID], t)
	return t, nil
}

// ListFiles returns the user's conversations, most recently active first.
func (r *MemoryRepo) ListFiles(ctx context.Context, userID string) ([]FileActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	byFile := make(map[string]FileActivity)
	for _, t := range r.data[userID] {
		f := byFile[t.FileName]
		f.FileName = t.FileName
		f.Turns++
		if t.CreatedAt.After(f.LastMessageAt) {
			f.LastMessageAt = t.CreatedAt
		}
		byFile[t.FileName] = f
	}

	out := make([]FileActivity, 0, len(byFile))
	for _, f := range byFile {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out, nil
}

// ListTurns returns the full history for one file in append order.
func (r *MemoryRepo) ListTurns(ctx context.Context, userID, fileName string) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Turn
	for _, t := range r.data[userID] {
		if t.FileName == fileName {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
