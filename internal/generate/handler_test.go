package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/identity"
	"quickai-backend/internal/shared/server/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Content json.RawMessage `json:"content"`
	Message string          `json:"message"`
}

type handlerFixture struct {
	router   *gin.Engine
	provider *identity.MemoryProvider
	llm      *stubLLM
	images   *stubImages
	repo     *creations.MemoryRepo
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := identity.NewMemoryProvider()
	provider.AddSession("free-token", "free-user")
	provider.AddSession("premium-token", "premium-user")
	provider.SetPremium("premium-user", true)

	gate := &entitlement.Gate{
		Plans:     provider,
		Quota:     identity.MetadataQuota{Provider: provider},
		FreeQuota: 10,
	}

	f := &handlerFixture{
		provider: provider,
		llm:      &stubLLM{reply: "generated text"},
		images:   &stubImages{data: []byte("png-bytes")},
		repo:     creations.NewMemoryRepo(),
	}
	svc := &Service{
		LLM:       f.llm,
		Images:    f.images,
		Media:     &stubTransformer{url: "https://cdn.example/out.png"},
		Uploader:  &stubUploader{url: "https://cdn.example/up.png"},
		Creations: f.repo,
		Gate:      gate,
		ExtractText: func(data []byte) (string, error) {
			return "extracted text", nil
		},
	}

	r := gin.New()
	ai := r.Group("/api/ai")
	ai.Use(middleware.Auth(provider), middleware.Entitlement(gate))
	NewHandler(svc).RegisterRoutes(ai)
	f.router = r
	return f
}

func (f *handlerFixture) postJSON(t *testing.T, token, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestGenerateArticleEndToEnd(t *testing.T) {
	f := newHandlerFixture(t)

	// Ninth of ten free generations.
	if err := f.provider.SetFreeUsage(context.Background(), "free-user", 9); err != nil {
		t.Fatalf("seed usage: %v", err)
	}

	resp, env := f.postJSON(t, "free-token", "/api/ai/generate-article", map[string]any{
		"prompt": "Write about Go",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.Code, resp.Body.String())
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", resp.Body.String())
	}
	var content string
	if err := json.Unmarshal(env.Content, &content); err != nil || content != "generated text" {
		t.Fatalf("unexpected content %s", env.Content)
	}

	used, err := f.provider.FreeUsage(context.Background(), "free-user")
	if err != nil {
		t.Fatalf("free usage: %v", err)
	}
	if used != 10 {
		t.Fatalf("expected usage 10, got %d", used)
	}

	// Quota is exhausted: the next gated call fails without an upstream call.
	resp, env = f.postJSON(t, "free-token", "/api/ai/generate-article", map[string]any{
		"prompt": "Another one",
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if env.Success || env.Message != "Limit reached. Please upgrade to continue." {
		t.Fatalf("unexpected envelope %s", resp.Body.String())
	}
	if f.llm.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", f.llm.calls)
	}
}

func TestGenerateArticleRequiresPrompt(t *testing.T) {
	f := newHandlerFixture(t)

	resp, env := f.postJSON(t, "free-token", "/api/ai/generate-article", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestGenerateImagePremiumOnly(t *testing.T) {
	f := newHandlerFixture(t)

	resp, env := f.postJSON(t, "free-token", "/api/ai/generate-image", map[string]any{
		"prompt":  "a red car",
		"publish": true,
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if env.Success || !strings.Contains(env.Message, "premium") {
		t.Fatalf("unexpected envelope %s", resp.Body.String())
	}
	if f.images.calls != 0 {
		t.Fatalf("expected no image generation call, got %d", f.images.calls)
	}

	resp, env = f.postJSON(t, "premium-token", "/api/ai/generate-image", map[string]any{
		"prompt":  "a red car",
		"publish": true,
	})
	if resp.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected premium success, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestHumanizeRejectsOverLongText(t *testing.T) {
	f := newHandlerFixture(t)

	resp, env := f.postJSON(t, "free-token", "/api/ai/humanize-text", map[string]any{
		"text": strings.Repeat("word ", 1001),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if env.Success || !strings.Contains(env.Message, "1000 words") {
		t.Fatalf("unexpected envelope %s", resp.Body.String())
	}
	if f.llm.calls != 0 {
		t.Fatalf("expected no upstream call, got %d", f.llm.calls)
	}
}

func TestRemoveObjectRejectsMultiWordName(t *testing.T) {
	f := newHandlerFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	if err := mw.WriteField("object", "red car"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/ai/remove-image-object", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer premium-token")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestMissingTokenRejected(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if f.llm.calls != 0 {
		t.Fatalf("expected no upstream call, got %d", f.llm.calls)
	}
}
