package entitlement

import (
	"context"
	"sync"
)

// MemoryQuota is an in-memory QuotaStore for tests and DB-less development.
type MemoryQuota struct {
	mu   sync.Mutex
	data map[string]int
}

// NewMemoryQuota constructs an empty MemoryQuota.
func NewMemoryQuota() *MemoryQuota {
	return &MemoryQuota{data: make(map[string]int)}
}

func (s *MemoryQuota) Get(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[userID], nil
}

func (s *MemoryQuota) Increment(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID]++
	return s.data[userID], nil
}

func (s *MemoryQuota) Reset(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = 0
	return nil
}

var _ QuotaStore = (*MemoryQuota)(nil)
