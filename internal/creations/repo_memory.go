package creations

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
	data   map[int64]Creation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[int64]Creation)}
}

// Create stores the creation with a generated ID.
func (r *MemoryRepo) Create(ctx context.Context, cr Creation) (Creation, error) {
	if err := ctx.Err(); err != nil {
		return Creation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cr.ID = r.nextID
	now := time.Now().UTC()
	cr.CreatedAt = now
	cr.UpdatedAt = now
	if cr.Likes == nil {
		cr.Likes = []string{}
	}
	r.data[cr.ID] = cr
	return cr, nil
}

// ListByUser returns the user's creations, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Creation
	for _, cr := range r.data {
		if cr.UserID == userID {
			out = append(out, cloneCreation(cr))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListPublished returns published creations, newest first.
func (r *MemoryRepo) ListPublished(ctx context.Context) ([]Creation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Creation
	for _, cr := range r.data {
		if cr.Publish {
			out = append(out, cloneCreation(cr))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ToggleLike flips userID's membership in the likes set.
func (r *MemoryRepo) ToggleLike(ctx context.Context, id int64, userID string) (Creation, error) {
	if err := ctx.Err(); err != nil {
		return Creation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.data[id]
	if !ok {
		return Creation{}, ErrNotFound
	}
	cr.Likes = toggle(append([]string(nil), cr.Likes...), userID)
	cr.UpdatedAt = time.Now().UTC()
	r.data[id] = cr
	return cloneCreation(cr), nil
}

func cloneCreation(cr Creation) Creation {
	cr.Likes = append([]string(nil), cr.Likes...)
	return cr
}

func sortNewestFirst(out []Creation) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
