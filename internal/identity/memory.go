package identity

import (
	"context"
	"sync"
)

// MemoryProvider is an in-memory Provider for tests and local development.
type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]string // token -> userID
	premium  map[string]bool
	usage    map[string]int
}

// NewMemoryProvider constructs an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		sessions: make(map[string]string),
		premium:  make(map[string]bool),
		usage:    make(map[string]int),
	}
}

// AddSession registers a token for a user.
func (p *MemoryProvider) AddSession(token, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[token] = userID
}

// SetPremium marks a user as premium or free.
func (p *MemoryProvider) SetPremium(userID string, premium bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.premium[userID] = premium
}

func (p *MemoryProvider) VerifySession(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.RLock()
	userID, ok := p.sessions[token]
	p.mu.RUnlock()
	if !ok {
		return "", ErrUnauthorized
	}
	return userID, nil
}

func (p *MemoryProvider) HasPremiumPlan(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.premium[userID], nil
}

func (p *MemoryProvider) FreeUsage(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.usage[userID], nil
}

func (p *MemoryProvider) SetFreeUsage(ctx context.Context, userID string, value int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usage[userID] = value
	return nil
}

var _ Provider = (*MemoryProvider)(nil)
