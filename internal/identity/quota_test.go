package identity

import (
	"context"
	"testing"
)

func TestMetadataQuotaRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider()
	quota := MetadataQuota{Provider: provider}

	used, err := quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 0 {
		t.Fatalf("expected 0 for absent counter, got %d", used)
	}

	for i := 1; i <= 3; i++ {
		n, err := quota.Increment(ctx, "u1")
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if n != i {
			t.Fatalf("expected counter %d, got %d", i, n)
		}
	}

	if err := quota.Reset(ctx, "u1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	used, err = quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 0 {
		t.Fatalf("expected 0 after reset, got %d", used)
	}
}

func TestMemoryProviderSessions(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider()
	provider.AddSession("token-1", "u1")

	userID, err := provider.VerifySession(ctx, "token-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}

	if _, err := provider.VerifySession(ctx, "unknown"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
