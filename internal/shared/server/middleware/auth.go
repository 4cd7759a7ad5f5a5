package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/identity"
	"quickai-backend/internal/shared/server/respond"
)

const userIDKey = "userId"

// Auth resolves the bearer session token to a user ID via the identity
// provider and stores it in the request context.
func Auth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Fail(c, http.StatusUnauthorized, "Missing or invalid session token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Fail(c, http.StatusUnauthorized, "Missing or invalid session token")
			return
		}

		userID, err := provider.VerifySession(c.Request.Context(), token)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, "Missing or invalid session token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
