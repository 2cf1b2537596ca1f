package ephem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
)

const (
	// DefaultBaseURL is where the bundled demo service listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 15 * time.Second

	// maxBody caps how much of a response we read.
	maxBody = 1 << 20
)

// Client is the HTTP chart service provider.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	log     *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the service root, e.g. https://charts.example.com.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimit paces requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a chart service client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		log:     logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}
	c.log = c.log.WithComponent("ephem")

	return c
}

// Name implements Provider.
func (c *Client) Name() string {
	return "chart service"
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateChart implements Provider.
func (c *Client) GenerateChart(ctx context.Context, req ChartRequest) (*chart.Payload, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chart request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/api/chart", body)
	if err != nil {
		return nil, err
	}

	var p chart.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &TransportError{Op: "decode chart", Err: err}
	}
	return &p, nil
}

// Health implements Provider. Any JSON body counts as healthy; a body that
// is not an object is returned under the "body" key.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &TransportError{Op: "decode health", Err: err}
	}
	if obj, ok := v.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{"body": v}, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: "rate limit", Err: err}
		}
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("User-Agent", "ls-natal/"+version.Version)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(logging.Fields{"request_id": reqID})
	start := time.Now()
	log.Debug("%s %s", method, path)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn("%s %s failed: %v", method, path, err)
		return nil, &TransportError{Op: strings.ToLower(method) + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &TransportError{Op: "read response body", Err: err}
	}
	log.Debug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeErrorBody(resp.StatusCode, raw)
	}
	return raw, nil
}
