package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"formforge/internal/model"

	"go.uber.org/zap"
)

// ErrTokenExpired means the Forms API rejected the bearer token; the caller
// should refresh the user's credentials and retry.
var ErrTokenExpired = errors.New("google access token expired or revoked")

// FormsClient wraps Google Forms REST v1 calls. Tokens are per-user, so they
// are passed per call instead of being held by the client.
type FormsClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	log        *zap.Logger
}

// NewFormsClient creates a new Google Forms API client
func NewFormsClient(log *zap.Logger) *FormsClient {
	return &FormsClient{
		baseURL: "https://forms.googleapis.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 5,
		retryDelay: time.Second,
		log:        log,
	}
}

type createFormResponse struct {
	FormID       string `json:"formId"`
	ResponderURI string `json:"responderUri"`
}

// CreateForm creates an empty form. The create endpoint only accepts the
// title; everything else is applied through batchUpdate afterwards.
func (c *FormsClient) CreateForm(ctx context.Context, token string, info model.GoogleFormsInfo) (string, error) {
	body := map[string]interface{}{
		"info": map[string]string{"title": info.Title},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	respBody, err := c.doRequest(ctx, token, "POST", "/forms", jsonBody)
	if err != nil {
		return "", err
	}

	var created createFormResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	if created.FormID == "" {
		return "", fmt.Errorf("no form ID returned from Forms API")
	}
	return created.FormID, nil
}

// BatchUpdate applies a batch of requests to an existing form
func (c *FormsClient) BatchUpdate(ctx context.Context, token, formID string, req *model.FormsBatchUpdateRequest) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return err
	}

	_, err = c.doRequest(ctx, token, "POST", "/forms/"+formID+":batchUpdate", jsonBody)
	return err
}

// doRequest performs an HTTP request with retry logic
func (c *FormsClient) doRequest(ctx context.Context, token, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying forms request",
				zap.Int("attempt", attempt),
				zap.String("path", path))
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		// Rate limiting: back off and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * c.retryDelay
			c.log.Warn("forms API rate limited",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("rate limited")
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrTokenExpired
		}

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("forms API returned status %d: %s", resp.StatusCode, string(respBody))
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("forms request failed after %d attempts: %w", c.maxRetries, lastErr)
}
