// Package authapi is the client for the external token validation
// service. The core never verifies credentials itself: the boundary
// posts each request's bearer token here and only lets authorized calls
// through.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the external validation endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a validation client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Subject string `json:"subject"`
}

// Validate posts the bearer token to the validator. It returns the
// subject id the validator associates with the token, or an error when
// the token is rejected or the validator is unreachable.
func (c *Client) Validate(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(validateRequest{Token: token})
	if err != nil {
		return "", fmt.Errorf("failed to marshal validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("validation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token rejected with status %d", resp.StatusCode)
	}

	var result validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode validation response: %w", err)
	}
	if !result.Valid {
		return "", fmt.Errorf("token rejected by validator")
	}

	return result.Subject, nil
}
