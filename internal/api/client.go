package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
	"github.com/opsdeskhq/opsdesk/internal/observability/statsd"
)

// TokenSource supplies the current access token, or the empty string when
// the session is unauthenticated. Implementations must not fail: a broken
// token lookup reads as "no token".
type TokenSource func(ctx context.Context) string

// Config captures the subset of backend transport behaviour we need.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://opsdesk.example.com".
	// Empty leaves request paths relative, which only a custom transport
	// or same-origin proxy can serve.
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
	Metrics statsd.Sink
	Token   TokenSource
}

// Client talks to the dashboard backend's {data: T} envelope endpoints.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	metrics statsd.Sink
	token   TokenSource
}

// NewClient builds a backend client. The base URL is resolved exactly once
// here; callers pass paths like "/api/hr/employees" afterwards.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
			return nil, fmt.Errorf("base url %q must be absolute http(s)", baseURL)
		}
		baseURL = strings.TrimRight(u.String(), "/")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	token := cfg.Token
	if token == nil {
		token = func(context.Context) string { return "" }
	}

	return &Client{
		baseURL: baseURL,
		client:  hc,
		logger:  logger,
		metrics: cfg.Metrics,
		token:   token,
	}, nil
}

// Envelope is the backend's uniform response wrapper.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// List fetches a collection endpoint and decodes the enveloped rows.
func List[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	rows, err := decodeEnvelope[[]T](body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", http.MethodGet, path, err)
	}
	return rows, nil
}

// Get fetches a single enveloped document.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}
	doc, err := decodeEnvelope[T](body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", http.MethodGet, path, err)
	}
	return doc, nil
}

// Create posts a payload and decodes the enveloped row the backend returns.
func Create[T any, R any](ctx context.Context, c *Client, path string, req R) (T, error) {
	var zero T
	payload, err := json.Marshal(req)
	if err != nil {
		return zero, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s payload", path)
	}
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return zero, err
	}
	row, err := decodeEnvelope[T](body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", http.MethodPost, path, err)
	}
	return row, nil
}

// do performs one request and returns the raw response body for 2xx
// statuses. Everything else maps onto the error taxonomy: cancellations
// stay cancellations, 401s are unauthorized, other non-2xx carry their
// status, and transport failures are internal.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create %s request", path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Canceled(err)
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s %s", method, path)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.DebugContext(ctx, "close response body failed", "path", path, "error", closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	c.observe(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Canceled(err)
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "read %s response", path)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, apperrors.Unauthorized(fmt.Sprintf("%s %s: %s", method, path, resp.Status))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.HTTPStatus(resp.StatusCode,
			fmt.Sprintf("%s %s: %s: %s", method, path, resp.Status, snippet(respBody)))
	}

	return respBody, nil
}

// decodeEnvelope unwraps {data: T} strictly: a body without the data key is
// a decode error, never a zero value.
func decodeEnvelope[T any](body []byte) (T, error) {
	var zero T
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return zero, apperrors.Decode("malformed response body", err)
	}
	if probe.Data == nil {
		return zero, apperrors.Decode("response missing data envelope", nil)
	}
	var out T
	if err := json.Unmarshal(probe.Data, &out); err != nil {
		return zero, apperrors.Decode("unexpected data shape", err)
	}
	return out, nil
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) observe(method, path string, status int, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	tags := map[string]string{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	c.metrics.Count("api.request", 1, tags)
	c.metrics.Timing("api.request.duration", elapsed, tags)
}

// snippet trims a response body for error messages; full bodies belong in
// debug logs only.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	const maxLen = 140
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
