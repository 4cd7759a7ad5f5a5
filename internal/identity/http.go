package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// HTTPProvider talks to a Clerk-style identity backend API.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider constructs an HTTPProvider.
func NewHTTPProvider(baseURL, apiKey string) (*HTTPProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("IDENTITY_API_URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("IDENTITY_API_KEY is required")
	}
	timeout := 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("IDENTITY_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID string `json:"user_id"`
}

type userResponse struct {
	ID              string `json:"id"`
	Plan            string `json:"plan"`
	PrivateMetadata struct {
		FreeUsage int `json:"free_usage"`
	} `json:"private_metadata"`
}

type metadataUpdate struct {
	PrivateMetadata struct {
		FreeUsage int `json:"free_usage"`
	} `json:"private_metadata"`
}

func (p *HTTPProvider) VerifySession(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return "", err
	}
	var parsed verifyResponse
	status, err := p.do(ctx, http.MethodPost, "/v1/sessions/verify", bytes.NewReader(body), &parsed)
	if err != nil {
		return "", err
	}
	if status == http.StatusUnauthorized || status == http.StatusNotFound {
		return "", ErrUnauthorized
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("identity verify status %d", status)
	}
	if parsed.UserID == "" {
		return "", ErrUnauthorized
	}
	return parsed.UserID, nil
}

func (p *HTTPProvider) HasPremiumPlan(ctx context.Context, userID string) (bool, error) {
	u, err := p.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(u.Plan, "premium"), nil
}

func (p *HTTPProvider) FreeUsage(ctx context.Context, userID string) (int, error) {
	u, err := p.getUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.PrivateMetadata.FreeUsage, nil
}

func (p *HTTPProvider) SetFreeUsage(ctx context.Context, userID string, value int) error {
	var update metadataUpdate
	update.PrivateMetadata.FreeUsage = value
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	status, err := p.do(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(userID)+"/metadata", bytes.NewReader(body), nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return ErrUserNotFound
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("identity metadata update status %d", status)
	}
	return nil
}

func (p *HTTPProvider) getUser(ctx context.Context, userID string) (userResponse, error) {
	var parsed userResponse
	status, err := p.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID), nil, &parsed)
	if err != nil {
		return userResponse{}, err
	}
	if status == http.StatusNotFound {
		return userResponse{}, ErrUserNotFound
	}
	if status != http.StatusOK {
		return userResponse{}, fmt.Errorf("identity user lookup status %d", status)
	}
	return parsed, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, fmt.Errorf("identity response parse: %w", err)
		}
	}
	return resp.StatusCode, nil
}

var _ Provider = (*HTTPProvider)(nil)
