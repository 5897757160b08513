// Package apiclient is the single configured HTTP client used to reach the
// REST backend. Every view in the web app goes through it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taskfolio/taskfolio-web/internal/logging"
)

const (
	DefaultTimeout       = 15 * time.Second
	DefaultUploadTimeout = 60 * time.Second

	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	RateLimit     rate.Limit
	RateBurst     int
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client issues credentialed requests to the backend. The zero jar sends no
// cookies; use WithJar to bind a browser session.
type Client struct {
	baseURL       string
	defaultClient *http.Client
	uploadClient  *http.Client
	limiter       *rate.Limiter
	metrics       *Metrics
	jar           *Jar
}

// New creates a client for the backend rooted at opts.BaseURL
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: base,
		defaultClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		uploadClient: &http.Client{
			Timeout:   opts.UploadTimeout,
			Transport: opts.Transport,
		},
		limiter: rate.NewLimiter(limit, burst),
		metrics: NewMetrics(),
	}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithJar returns a view of c that sends the cookies held in jar and records
// every cookie the backend sets. The underlying HTTP clients and rate
// limiter are shared.
func (c *Client) WithJar(jar *Jar) *Client {
	cp := *c
	cp.jar = jar
	return &cp
}

// Jar returns the cookie jar bound to c, if any.
func (c *Client) Jar() *Jar {
	return c.jar
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a JSON response into out (when non-nil). Non-2xx
// responses become *APIError. Nothing is retried.
func (c *Client) do(ctx context.Context, operation string, hc *http.Client, req *http.Request, out any) error {
	logger := logging.New(ctx)
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.observe(operation, outcomeNetworkError, time.Since(start))
		return fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	req.Header.Set("Accept", "application/json")
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	c.jar.apply(req)

	resp, err := hc.Do(req)
	if err != nil {
		logger.LogError(operation, err)
		c.metrics.observe(operation, outcomeNetworkError, time.Since(start))
		return fmt.Errorf("%s: request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	c.jar.update(resp.Cookies())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(operation, resp)
		c.metrics.observe(operation, outcomeFor(resp.StatusCode), time.Since(start))
		logger.LogWarnf(operation, "backend returned status %d message=%q", resp.StatusCode, apiErr.Message)
		return apiErr
	}
	c.metrics.observe(operation, outcomeOK, time.Since(start))

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", operation, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.LogError(operation, err)
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}
