// Package backend talks to the external research API that scrapes researcher
// profiles and scores paper relevance.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"scholar-lens/internal/domain"
	apperrors "scholar-lens/pkg/errors"
)

const maxResponseBytes = 4 << 20

var _ domain.ResearchBackend = (*Client)(nil)

// Client implements domain.ResearchBackend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     domain.Logger
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger domain.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type analyzeRequest struct {
	URL         string             `json:"url"`
	ProfileType domain.ProfileType `json:"profile_type"`
}

type searchRequest struct {
	Query                 string `json:"query"`
	TopK                  int    `json:"top_k"`
	IncludeExplainability bool   `json:"include_explainability"`
}

// AnalyzeProfile asks the backend to scrape and summarize a profile URL.
func (c *Client) AnalyzeProfile(ctx context.Context, profileURL string, profileType domain.ProfileType, token string) (*domain.ResearchProfile, error) {
	const endpoint = "/profiles/analyze"
	body, err := c.do(ctx, http.MethodPost, endpoint, analyzeRequest{URL: profileURL, ProfileType: profileType}, token)
	if err != nil {
		return nil, err
	}
	profile, err := decodeAnalyze(endpoint, body)
	if err != nil {
		return nil, c.payloadFailure(err)
	}
	if profile.SourceURL == "" {
		profile.SourceURL = profileURL
	}
	return profile, nil
}

// GetProfile fetches a previously analyzed profile.
func (c *Client) GetProfile(ctx context.Context, profileID string, token string) (*domain.ResearchProfile, error) {
	endpoint := "/profiles/" + url.PathEscape(profileID)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil, token)
	if err != nil {
		return nil, err
	}
	profile, err := decodeProfile(endpoint, body)
	if err != nil {
		return nil, c.payloadFailure(err)
	}
	return profile, nil
}

// SearchRecommendations returns the papers the backend scores for query.
func (c *Client) SearchRecommendations(ctx context.Context, query string, topK int, token string) ([]domain.Paper, error) {
	const endpoint = "/recommendations/search"
	body, err := c.do(ctx, http.MethodPost, endpoint, searchRequest{Query: query, TopK: topK}, token)
	if err != nil {
		return nil, err
	}
	papers, err := decodeRecommendations(endpoint, body)
	if err != nil {
		return nil, c.payloadFailure(err)
	}
	return papers, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload interface{}, token string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode backend request", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build backend request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed", err, "method", method, "endpoint", endpoint)
		return nil, apperrors.NewNetworkError("research backend unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read backend response", err)
	}
	c.logger.Debug("Backend request completed",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) payloadFailure(err error) error {
	c.logger.Warn("Rejected backend payload", "reason", err.Error())
	return apperrors.NewUpstreamError("research backend returned an unexpected payload", err.Error(), err)
}

// statusError maps a non-2xx backend response, using its {"error": "..."} body
// when present.
func statusError(status int, body []byte) error {
	var errBody struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("HTTP %d", status)
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		msg = errBody.Error
	}

	switch {
	case status == http.StatusNotFound:
		return apperrors.NewNotFoundError(msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewUnauthorizedError(msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(msg)
	default:
		return apperrors.NewUpstreamError("research backend request failed", msg, nil)
	}
}
