package identity

import "context"

// MetadataQuota exposes the provider's free_usage metadata as a quota store.
// Writes are last-writer-wins; a user's requests are effectively sequential
// from a single client session, so no optimistic locking is attempted here.
type MetadataQuota struct {
	Provider Provider
}

// Get returns the stored counter, defaulting to 0 when absent.
func (q MetadataQuota) Get(ctx context.Context, userID string) (int, error) {
	return q.Provider.FreeUsage(ctx, userID)
}

// Increment bumps the stored counter by one and returns the new value.
func (q MetadataQuota) Increment(ctx context.Context, userID string) (int, error) {
	n, err := q.Provider.FreeUsage(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := q.Provider.SetFreeUsage(ctx, userID, n+1); err != nil {
		return 0, err
	}
	return n + 1, nil
}

// Reset writes an explicit 0 counter.
func (q MetadataQuota) Reset(ctx context.Context, userID string) error {
	return q.Provider.SetFreeUsage(ctx, userID, 0)
}
