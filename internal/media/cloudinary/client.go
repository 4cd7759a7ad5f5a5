package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"quickai-backend/internal/media"
)

// Client talks to the Cloudinary upload API with signed requests.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient constructs a Cloudinary client.
func NewClient(cloudName, apiKey, apiSecret string) (*Client, error) {
	if strings.TrimSpace(cloudName) == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
	}
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(apiSecret) == "" {
		return nil, fmt.Errorf("CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	baseURL := "https://api.cloudinary.com/v1_1"
	if raw := strings.TrimSpace(os.Getenv("CLOUDINARY_API_URL")); raw != "" {
		baseURL = strings.TrimRight(raw, "/")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLOUDINARY_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}, nil
}

// Upload stores the image without transformation.
func (c *Client) Upload(ctx context.Context, image []byte, name string) (string, error) {
	return c.upload(ctx, image, map[string]string{})
}

// RemoveBackground uploads with the background-removal effect applied.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) (string, error) {
	return c.upload(ctx, image, map[string]string{
		"transformation": "e_background_removal",
	})
}

// RemoveObject uploads with generative object removal for the named object.
func (c *Client) RemoveObject(ctx context.Context, image []byte, objectName string) (string, error) {
	return c.upload(ctx, image, map[string]string{
		"transformation": "e_gen_remove:prompt_" + objectName,
	})
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) upload(ctx context.Context, image []byte, params map[string]string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["timestamp"] = strconv.FormatInt(c.now().UTC().Unix(), 10)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range signed {
		if err := writer.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return "", err
	}
	if err := writer.WriteField("signature", c.sign(signed)); err != nil {
		return "", err
	}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	if err := writer.WriteField("file", dataURI); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("cloudinary response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("cloudinary error: %s", parsed.Error.Message)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response missing secure_url")
	}
	return parsed.SecureURL, nil
}

// sign produces the Cloudinary API signature: sha1 of the sorted signed
// params joined as key=value pairs, followed by the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(params[k])
	}
	b.WriteString(c.apiSecret)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

var (
	_ media.Uploader    = (*Client)(nil)
	_ media.Transformer = (*Client)(nil)
)
