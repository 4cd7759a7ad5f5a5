package creations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// Handler exposes the creations feed and community endpoints.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches creation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/get-user-creations", h.getUserCreations)
	rg.GET("/get-published-creations", h.getPublishedCreations)
	rg.POST("/toggle-like-creation", h.toggleLike)
}

func (h *Handler) getUserCreations(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, "Failed to load creations")
		return
	}
	if list == nil {
		list = []Creation{}
	}
	respond.Success(c, list)
}

func (h *Handler) getPublishedCreations(c *gin.Context) {
	list, err := h.Repo.ListPublished(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, "Failed to load creations")
		return
	}
	if list == nil {
		list = []Creation{}
	}
	respond.Success(c, list)
}

type toggleLikeRequest struct {
	ID int64 `json:"id" binding:"required"`
}

func (h *Handler) toggleLike(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Creation id is required")
		return
	}

	cr, err := h.Repo.ToggleLike(c.Request.Context(), req.ID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, http.StatusNotFound, "Creation not found")
			return
		}
		respond.Fail(c, http.StatusInternalServerError, "Failed to update creation")
		return
	}

	if cr.LikedBy(userID) {
		respond.Message(c, "Creation liked")
		return
	}
	respond.Message(c, "Like removed")
}
