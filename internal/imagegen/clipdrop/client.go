package clipdrop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"quickai-backend/internal/imagegen"
)

const defaultAPIURL = "https://clipdrop-api.co/text-to-image/v1"

// Client implements imagegen.Client using the ClipDrop text-to-image API.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a ClipDrop client.
func NewClient(apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("CLIPDROP_API_KEY is required")
	}
	apiURL := defaultAPIURL
	if raw := strings.TrimSpace(os.Getenv("CLIPDROP_API_URL")); raw != "" {
		apiURL = raw
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLIPDROP_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Generate synthesizes an image from the prompt and returns the raw bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clipdrop request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clipdrop status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("clipdrop empty image response")
	}
	return raw, nil
}

func truncateBody(raw []byte) string {
	const max = 256
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max])
}

var _ imagegen.Client = (*Client)(nil)
