package generate

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/telemetry"
)

const (
	maxPDFBytes   = 5 << 20
	maxImageBytes = 10 << 20
)

// Handler exposes the generation endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the gated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-article", h.article)
	rg.POST("/generate-blog-title", h.blogTitle)
	rg.POST("/humanize-text", h.humanize)
	rg.POST("/generate-image", h.image)
	rg.POST("/remove-image-background", h.removeBackground)
	rg.POST("/remove-image-object", h.removeObject)
	rg.POST("/resume-review", h.resumeReview)
	rg.POST("/calculate-ats-score", h.atsScore)
}

type articleRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Length int    `json:"length"`
}

func (h *Handler) article(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "A prompt is required")
		return
	}
	content, err := h.Svc.Article(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), req.Prompt, req.Length)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, content)
}

type promptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (h *Handler) blogTitle(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "A prompt is required")
		return
	}
	content, err := h.Svc.BlogTitle(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), req.Prompt)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, content)
}

type humanizeRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) humanize(c *gin.Context) {
	var req humanizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "Text to humanize is required")
		return
	}
	content, err := h.Svc.Humanize(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, content)
}

type imageRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Publish bool   `json:"publish"`
}

func (h *Handler) image(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, "A prompt is required")
		return
	}
	url, err := h.Svc.Image(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), req.Prompt, req.Publish)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, url)
}

func (h *Handler) removeBackground(c *gin.Context) {
	image, ok := h.readUpload(c, "image", maxImageBytes, "An image file is required", "Image must be 10MB or smaller")
	if !ok {
		return
	}
	url, err := h.Svc.RemoveBackground(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), image)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, url)
}

func (h *Handler) removeObject(c *gin.Context) {
	image, ok := h.readUpload(c, "image", maxImageBytes, "An image file is required", "Image must be 10MB or smaller")
	if !ok {
		return
	}
	url, err := h.Svc.RemoveObject(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), image, c.PostForm("object"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, url)
}

func (h *Handler) resumeReview(c *gin.Context) {
	pdf, ok := h.readUpload(c, "resume", maxPDFBytes, "A resume PDF is required", "Resume must be 5MB or smaller")
	if !ok {
		return
	}
	content, err := h.Svc.ResumeReview(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), pdf)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, content)
}

func (h *Handler) atsScore(c *gin.Context) {
	pdf, ok := h.readUpload(c, "resume", maxPDFBytes, "A resume PDF is required", "Resume must be 5MB or smaller")
	if !ok {
		return
	}
	result, err := h.Svc.ATSScore(c.Request.Context(), middleware.UserIDFromContext(c), middleware.EntitlementFromContext(c), pdf, c.PostForm("job_description"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.Success(c, result)
}

// readUpload reads one multipart file field, enforcing the size cap before
// buffering. Responds with a 400 and returns ok=false on any problem.
func (h *Handler) readUpload(c *gin.Context, field string, maxBytes int64, missingMsg, sizeMsg string) ([]byte, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, missingMsg)
		return nil, false
	}
	if fileHeader.Size > maxBytes {
		respond.Fail(c, http.StatusBadRequest, sizeMsg)
		return nil, false
	}
	data, err := readFile(fileHeader, maxBytes)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "Could not read the uploaded file")
		return nil, false
	}
	return data, true
}

func readFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.New("file exceeds size cap")
	}
	return data, nil
}

// fail maps dispatcher errors to the response envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entitlement.ErrQuotaExceeded):
		respond.Fail(c, http.StatusForbidden, "Limit reached. Please upgrade to continue.")
	case errors.Is(err, entitlement.ErrPremiumRequired):
		respond.Fail(c, http.StatusForbidden, "This feature is only available on the premium plan. Please upgrade to continue.")
	case errors.Is(err, ErrValidation):
		respond.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnreadablePDF):
		respond.Fail(c, http.StatusBadRequest, "Could not read the uploaded PDF")
	case errors.Is(err, ErrUpstream):
		telemetry.Error("generate.upstream", map[string]any{
			"request_id": c.GetString("requestId"),
			"user_id":    middleware.UserIDFromContext(c),
			"err":        err.Error(),
		})
		respond.Fail(c, http.StatusBadGateway, "Generation failed. Please try again.")
	default:
		respond.Fail(c, http.StatusInternalServerError, "Failed to save the creation")
	}
}
