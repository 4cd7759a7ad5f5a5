package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/telemetry"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Content any    `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success writes a 200 response carrying the generated content.
func Success(c *gin.Context, content any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Content: content})
}

// Message writes a 200 response carrying only a user-facing message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// Fail writes a failure envelope with the given status and user-facing message.
// Server-side detail belongs in the log fields, never in the message.
func Fail(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
