package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrBackendUnavailable means the request never produced a response
	ErrBackendUnavailable = errors.New("backend: unavailable")
	// ErrBackendRequestFailed means the backend answered with an error status
	ErrBackendRequestFailed = errors.New("backend: request failed")
	// ErrInvalidBaseURL is returned by NewClient for a malformed base URL
	ErrInvalidBaseURL = errors.New("backend: invalid base URL")
)

// StatusError carries a non-2xx reply from the backend
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrBackendRequestFailed
}

// Client talks to the external REST backend that owns all catalog,
// account, wishlist and order data
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxResponseSize int64
	userAgent       string
	recorder        CallRecorder
}

// CallRecorder observes the latency of each backend request. Status is 0 when
// no response arrived.
type CallRecorder interface {
	RecordRemoteCall(ctx context.Context, method string, status int, d time.Duration)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRecorder reports request latency to r
func WithRecorder(r CallRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient creates a backend client. Outgoing requests are traced and bounded
// by the configured timeout.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = defaultMaxResponseSize
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxResponseSize: maxSize,
		userAgent:       cfg.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one backend call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
}

// do performs the request and returns the raw response body.
// Transport failures wrap ErrBackendUnavailable; error statuses return *StatusError.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("backend: failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, r.method, 0, start)
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	c.record(ctx, r.method, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("backend: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{
			Method: r.method,
			Path:   r.path,
			Status: resp.StatusCode,
			Body:   truncate(string(data), 256),
		}
	}
	return data, nil
}

func (c *Client) record(ctx context.Context, method string, status int, start time.Time) {
	if c.recorder != nil {
		c.recorder.RecordRemoteCall(ctx, method, status, time.Since(start))
	}
}

// doJSON performs the request and decodes a non-empty reply into out
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	data, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: failed to decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// remoteError converts a transport or status failure into a domain error.
// 404 becomes NOT_FOUND; everything else, including an expired bearer token,
// is a REMOTE_ERROR.
func remoteError(err error, message string) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		return shared.WrapDomainError(shared.CodeNotFound, message, err)
	}
	return shared.WrapDomainError(shared.CodeRemoteError, message, err)
}

// Ping checks that the backend answers at all; any HTTP status counts as reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, request{method: http.MethodGet, path: "/brands"})
	if errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
