package identity

import (
	"context"
	"errors"
)

// Provider is the external identity service the backend trusts for
// authentication, plan checks and per-user private metadata.
type Provider interface {
	// VerifySession resolves a bearer session token to a user ID.
	VerifySession(ctx context.Context, token string) (string, error)
	// HasPremiumPlan reports whether the user currently holds a premium plan.
	HasPremiumPlan(ctx context.Context, userID string) (bool, error)
	// FreeUsage reads the free_usage counter from the user's private metadata.
	// A missing counter reads as 0.
	FreeUsage(ctx context.Context, userID string) (int, error)
	// SetFreeUsage writes the free_usage counter to the user's private metadata.
	SetFreeUsage(ctx context.Context, userID string, value int) error
}

// ErrUnauthorized indicates the session token was rejected by the provider.
var ErrUnauthorized = errors.New("session token rejected")

// ErrUserNotFound indicates the provider could not resolve the user.
var ErrUserNotFound = errors.New("user not found")
