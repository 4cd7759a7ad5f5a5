package pdfchat

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/telemetry"
)

const maxPDFBytes = 5 << 20

// Handler exposes the PDF chat endpoints.
type Handler struct {
	Svc  *Service
	Gate *entitlement.Gate
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, gate *entitlement.Gate) *Handler {
	return &Handler{Svc: svc, Gate: gate}
}

// RegisterRoutes attaches PDF chat routes to the gated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat-with-pdf", h.chat)
	rg.GET("/pdf-chat-history", h.history)
}

func (h *Handler) chat(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	ent := middleware.EntitlementFromContext(c)

	if err := h.Gate.RequirePremium(ent); err != nil {
		respond.Fail(c, http.StatusForbidden, "This feature is only available on the premium plan. Please upgrade to continue.")
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "A PDF file is required")
		return
	}
	if fileHeader.Size > maxPDFBytes {
		respond.Fail(c, http.StatusBadRequest, "PDF must be 5MB or smaller")
		return
	}
	message := strings.TrimSpace(c.PostForm("message"))
	if message == "" {
		respond.Fail(c, http.StatusBadRequest, "A message is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "Could not read the uploaded PDF")
		return
	}
	defer f.Close()
	pdfData, err := io.ReadAll(io.LimitReader(f, maxPDFBytes+1))
	if err != nil || int64(len(pdfData)) > maxPDFBytes {
		respond.Fail(c, http.StatusBadRequest, "Could not read the uploaded PDF")
		return
	}

	fileName := fileHeader.Filename

	history, err := h.Svc.Conversation(c.Request.Context(), userID, fileName)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, "Failed to load conversation history")
		return
	}

	reply, _, err := h.Svc.Chat(c.Request.Context(), userID, fileName, pdfData, message, history)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrUnreadablePDF):
			respond.Fail(c, http.StatusBadRequest, "Could not read the uploaded PDF")
		case errors.Is(err, ErrUpstream):
			telemetry.Error("pdfchat.upstream", map[string]any{
				"request_id": c.GetString("requestId"),
				"user_id":    userID,
				"err":        err.Error(),
			})
			respond.Fail(c, http.StatusBadGateway, "Generation failed. Please try again.")
		default:
			respond.Fail(c, http.StatusInternalServerError, "Failed to save the conversation")
		}
		return
	}

	respond.Success(c, reply)
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileName := strings.TrimSpace(c.Query("file_name"))
	if fileName == "" {
		files, err := h.Svc.Files(c.Request.Context(), userID)
		if err != nil {
			respond.Fail(c, http.StatusInternalServerError, "Failed to load chat history")
			return
		}
		respond.Success(c, files)
		return
	}

	history, err := h.Svc.Conversation(c.Request.Context(), userID, fileName)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	respond.Success(c, history)
}
