package entitlement

import (
	"context"
	"fmt"
)

// Plan values.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Entitlement is the resolved plan and counter for one request.
type Entitlement struct {
	Plan      string `json:"plan"`
	FreeUsage int    `json:"free_usage"`
}

// Premium reports whether the entitlement is on the premium plan.
func (e Entitlement) Premium() bool {
	return e.Plan == PlanPremium
}

// PlanSource answers whether a user currently holds a premium plan.
type PlanSource interface {
	HasPremiumPlan(ctx context.Context, userID string) (bool, error)
}

// QuotaStore holds the per-user free-usage counter. Implementations may be
// identity-provider metadata, a database table or a distributed counter.
type QuotaStore interface {
	Get(ctx context.Context, userID string) (int, error)
	Increment(ctx context.Context, userID string) (int, error)
	Reset(ctx context.Context, userID string) error
}

// Gate decides, per request, whether the caller may proceed and keeps the
// usage counter consistent.
type Gate struct {
	Plans     PlanSource
	Quota     QuotaStore
	FreeQuota int
}

// Check resolves the caller's plan and free-usage counter. Premium users, and
// free users whose counter was never initialized, get an explicit 0 written
// back so every later read observes a coherent baseline.
func (g *Gate) Check(ctx context.Context, userID string) (Entitlement, error) {
	premium, err := g.Plans.HasPremiumPlan(ctx, userID)
	if err != nil {
		return Entitlement{}, fmt.Errorf("%w: %v", ErrAuthLookup, err)
	}
	if premium {
		if err := g.Quota.Reset(ctx, userID); err != nil {
			return Entitlement{}, fmt.Errorf("%w: %v", ErrAuthLookup, err)
		}
		return Entitlement{Plan: PlanPremium, FreeUsage: 0}, nil
	}

	used, err := g.Quota.Get(ctx, userID)
	if err != nil {
		return Entitlement{}, fmt.Errorf("%w: %v", ErrAuthLookup, err)
	}
	if used == 0 {
		// Normalizes absent counters to a stored 0.
		if err := g.Quota.Reset(ctx, userID); err != nil {
			return Entitlement{}, fmt.Errorf("%w: %v", ErrAuthLookup, err)
		}
	}
	return Entitlement{Plan: PlanFree, FreeUsage: used}, nil
}

// RequireQuota rejects free-plan callers at or over the quota. It never
// mutates state.
func (g *Gate) RequireQuota(ent Entitlement) error {
	if ent.Premium() {
		return nil
	}
	if ent.FreeUsage >= g.FreeQuota {
		return ErrQuotaExceeded
	}
	return nil
}

// RequirePremium rejects non-premium callers outright.
func (g *Gate) RequirePremium(ent Entitlement) error {
	if !ent.Premium() {
		return ErrPremiumRequired
	}
	return nil
}

// Consume records one successful quota-gated operation. Premium users are
// never charged. Must only be called after the generation succeeded and was
// persisted, so a failed generation does not consume quota.
func (g *Gate) Consume(ctx context.Context, userID string, ent Entitlement) error {
	if ent.Premium() {
		return nil
	}
	_, err := g.Quota.Increment(ctx, userID)
	return err
}
