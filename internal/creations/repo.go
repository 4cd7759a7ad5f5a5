package creations

import "context"

// Repo defines persistence operations for creations.
type Repo interface {
	// Create inserts the creation and returns it with its assigned ID and
	// timestamps.
	Create(ctx context.Context, cr Creation) (Creation, error)
	// ListByUser returns the user's creations, newest first.
	ListByUser(ctx context.Context, userID string) ([]Creation, error)
	// ListPublished returns all published creations, newest first.
	ListPublished(ctx context.Context) ([]Creation, error)
	// ToggleLike adds userID to the likes set if absent, removes it if
	// present, and returns the updated creation. Toggling twice restores
	// the original set.
	ToggleLike(ctx context.Context, id int64, userID string) (Creation, error)
}
