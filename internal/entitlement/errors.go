package entitlement

import "errors"

var (
	// ErrAuthLookup indicates the identity provider could not resolve the
	// user or their plan. Callers must reject the request without calling
	// any downstream generation capability.
	ErrAuthLookup = errors.New("identity lookup failed")

	// ErrQuotaExceeded indicates the free-usage counter is at or above the
	// configured quota.
	ErrQuotaExceeded = errors.New("free usage limit reached")

	// ErrPremiumRequired indicates a premium-only operation was attempted on
	// the free plan.
	ErrPremiumRequired = errors.New("premium plan required")
)
