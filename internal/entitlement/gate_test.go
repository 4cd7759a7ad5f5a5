package entitlement

import (
	"context"
	"errors"
	"testing"
)

type stubPlans struct {
	premium map[string]bool
	err     error
}

func (s stubPlans) HasPremiumPlan(ctx context.Context, userID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.premium[userID], nil
}

func newTestGate(premium map[string]bool, freeQuota int) (*Gate, *MemoryQuota) {
	quota := NewMemoryQuota()
	gate := &Gate{
		Plans:     stubPlans{premium: premium},
		Quota:     quota,
		FreeQuota: freeQuota,
	}
	return gate, quota
}

func TestCheckFreeUser(t *testing.T) {
	ctx := context.Background()
	gate, quota := newTestGate(nil, 10)

	for i := 0; i < 3; i++ {
		if _, err := quota.Increment(ctx, "u1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	ent, err := gate.Check(ctx, "u1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ent.Plan != PlanFree {
		t.Fatalf("expected plan free, got %q", ent.Plan)
	}
	if ent.FreeUsage != 3 {
		t.Fatalf("expected free usage 3, got %d", ent.FreeUsage)
	}

	// Check never mutates a nonzero counter.
	used, err := quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 3 {
		t.Fatalf("expected stored usage 3 after check, got %d", used)
	}
}

func TestCheckNormalizesAbsentCounter(t *testing.T) {
	ctx := context.Background()
	gate, quota := newTestGate(nil, 10)

	ent, err := gate.Check(ctx, "new-user")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ent.FreeUsage != 0 {
		t.Fatalf("expected free usage 0, got %d", ent.FreeUsage)
	}
	used, err := quota.Get(ctx, "new-user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 0 {
		t.Fatalf("expected stored usage 0, got %d", used)
	}
}

func TestCheckPremiumResetsCounter(t *testing.T) {
	ctx := context.Background()
	gate, quota := newTestGate(map[string]bool{"u1": true}, 10)

	// Leftover counter from before an upgrade.
	for i := 0; i < 7; i++ {
		if _, err := quota.Increment(ctx, "u1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	ent, err := gate.Check(ctx, "u1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ent.Plan != PlanPremium {
		t.Fatalf("expected plan premium, got %q", ent.Plan)
	}
	if ent.FreeUsage != 0 {
		t.Fatalf("expected free usage 0, got %d", ent.FreeUsage)
	}
	used, err := quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 0 {
		t.Fatalf("expected stored usage reset to 0, got %d", used)
	}
}

func TestCheckPlanLookupFailure(t *testing.T) {
	gate := &Gate{
		Plans:     stubPlans{err: errors.New("provider down")},
		Quota:     NewMemoryQuota(),
		FreeQuota: 10,
	}
	if _, err := gate.Check(context.Background(), "u1"); !errors.Is(err, ErrAuthLookup) {
		t.Fatalf("expected ErrAuthLookup, got %v", err)
	}
}

func TestQuotaMonotonicity(t *testing.T) {
	ctx := context.Background()
	gate, quota := newTestGate(nil, 3)

	for i := 0; i < 3; i++ {
		ent, err := gate.Check(ctx, "u1")
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if ent.FreeUsage != i {
			t.Fatalf("expected usage %d before call %d, got %d", i, i, ent.FreeUsage)
		}
		if err := gate.RequireQuota(ent); err != nil {
			t.Fatalf("require quota %d: %v", i, err)
		}
		if err := gate.Consume(ctx, "u1", ent); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}

	ent, err := gate.Check(ctx, "u1")
	if err != nil {
		t.Fatalf("check after exhaustion: %v", err)
	}
	if ent.FreeUsage != 3 {
		t.Fatalf("expected usage 3, got %d", ent.FreeUsage)
	}
	if err := gate.RequireQuota(ent); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// Rejection is a pure read.
	used, err := quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 3 {
		t.Fatalf("expected usage unchanged at 3, got %d", used)
	}
}

func TestPremiumNeverCharged(t *testing.T) {
	ctx := context.Background()
	gate, quota := newTestGate(map[string]bool{"u1": true}, 3)

	for i := 0; i < 20; i++ {
		ent, err := gate.Check(ctx, "u1")
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if ent.FreeUsage != 0 {
			t.Fatalf("expected usage 0, got %d", ent.FreeUsage)
		}
		if err := gate.RequireQuota(ent); err != nil {
			t.Fatalf("require quota %d: %v", i, err)
		}
		if err := gate.RequirePremium(ent); err != nil {
			t.Fatalf("require premium %d: %v", i, err)
		}
		if err := gate.Consume(ctx, "u1", ent); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}

	used, err := quota.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if used != 0 {
		t.Fatalf("expected usage 0 after 20 premium calls, got %d", used)
	}
}

func TestRequirePremiumRejectsFree(t *testing.T) {
	gate, _ := newTestGate(nil, 10)
	ent := Entitlement{Plan: PlanFree, FreeUsage: 0}
	if err := gate.RequirePremium(ent); !errors.Is(err, ErrPremiumRequired) {
		t.Fatalf("expected ErrPremiumRequired, got %v", err)
	}
}
