// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/suaibot/internal/config"
	"github.com/jeranaias/suaibot/internal/model"
)

// MaxResponseSize caps how much of a response body is read (10 MiB).
const MaxResponseSize = 10 * 1024 * 1024

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	// ChatBaseURL is the root of the chat endpoints (default: http://localhost:8000/api/chat)
	ChatBaseURL string

	// Timeout for a whole request (default: 30s, 0 after construction means none)
	Timeout time.Duration

	// Debug logs every request and response through Logger.
	Debug bool

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64
	RateBurst int

	// UserAgent is sent on every request.
	UserAgent string

	Logger *slog.Logger

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		ChatBaseURL: "http://localhost:8000/api/chat",
		Timeout:     30 * time.Second,
		UserAgent:   "suaibot",
	}
}

// ConfigFrom builds a ClientConfig from the application config.
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		ChatBaseURL: cfg.ChatBaseURL(),
		Timeout:     cfg.Timeout(),
		Debug:       cfg.API.Debug,
		RateLimit:   cfg.API.RateLimit,
		RateBurst:   cfg.API.RateBurst,
		UserAgent:   "suaibot",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat endpoints of the answer service.
// Requests are not retried. The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient(api.ConfigFrom(cfg))
//	resp, err := client.SendMessage(ctx, model.ChatRequest{UserID: uid, Message: "Когда сессия?"})
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a client. A nil config means DefaultConfig.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ChatBaseURL == "" {
		cfg.ChatBaseURL = DefaultConfig().ChatBaseURL
	}
	cfg.ChatBaseURL = strings.TrimRight(cfg.ChatBaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "suaibot"
	}

	c := &Client{
		config: cfg,
		logger: cfg.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if cfg.HTTPClient != nil {
		c.httpClient = cfg.HTTPClient
	} else {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// BaseURL returns the chat endpoint root.
func (c *Client) BaseURL() string {
	return c.config.ChatBaseURL
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage posts a message and returns the answer.
// POST {base}/message
func (c *Client) SendMessage(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	var out model.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/message", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserHistory returns the history of a user, optionally narrowed to one session.
// GET {base}/history/{user_id}?limit=N[&session_id=S]
func (c *Client) GetUserHistory(ctx context.Context, userID string, sessionID *string, limit int) (*model.ChatHistoryResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if sessionID != nil && *sessionID != "" {
		q.Set("session_id", *sessionID)
	}

	var out model.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/history/"+url.PathEscape(userID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSessionHistory returns the history of one session.
// GET {base}/history/session/{session_id}?limit=N
func (c *Client) GetSessionHistory(ctx context.Context, sessionID string, limit int) (*model.ChatHistoryResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out model.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/history/session/"+url.PathEscape(sessionID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHistory deletes a user's history, or only one session when sessionID is set.
// DELETE {base}/history/{user_id}[?session_id=S]
func (c *Client) DeleteHistory(ctx context.Context, userID string, sessionID *string) (*model.DeleteHistoryResponse, error) {
	var q url.Values
	if sessionID != nil && *sessionID != "" {
		q = url.Values{"session_id": []string{*sessionID}}
	}

	var out model.DeleteHistoryResponse
	if err := c.do(ctx, http.MethodDelete, "/history/"+url.PathEscape(userID), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &APIError{Type: ErrTypeRateLimited, Message: "rate limit wait aborted", Cause: err}
		}
	}

	endpoint := c.config.ChatBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &APIError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.debug("request", "method", method, "url", endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.debug("request failed", "method", method, "url", endpoint, "error", err)
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return transportError(err)
	}
	c.debug("response", "method", method, "url", endpoint, "status", resp.StatusCode,
		"bytes", len(data), "elapsed", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newHTTPError(resp.StatusCode, data)
		c.debug("error response", "status", resp.StatusCode, "detail", apiErr.Error())
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func transportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &APIError{Type: ErrTypeConnection, Message: "request canceled", Cause: err}
	}
	return &APIError{Type: ErrTypeConnection, Message: "service unreachable", Cause: err}
}

func (c *Client) debug(msg string, args ...any) {
	if !c.config.Debug {
		return
	}
	c.logger.Debug(fmt.Sprintf("[API] %s", msg), args...)
}
