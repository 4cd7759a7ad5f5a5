package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/shared/server/respond"
)

const (
	planKey        = "plan"
	entitlementKey = "entitlement"
)

// Entitlement resolves the caller's plan and free-usage counter before any
// gated handler runs. A provider failure rejects the request here, before any
// downstream generation call is attempted.
func Entitlement(gate *entitlement.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserIDFromContext(c)
		ent, err := gate.Check(c.Request.Context(), userID)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, "Unable to verify your account. Please sign in again.")
			return
		}
		c.Set(planKey, ent.Plan)
		c.Set(entitlementKey, ent)
		c.Next()
	}
}

// EntitlementFromContext fetches the entitlement resolved by the middleware.
func EntitlementFromContext(c *gin.Context) entitlement.Entitlement {
	if c == nil {
		return entitlement.Entitlement{}
	}
	val, _ := c.Get(entitlementKey)
	if ent, ok := val.(entitlement.Entitlement); ok {
		return ent
	}
	return entitlement.Entitlement{}
}
