// Package api is the HTTP client for the recruiting platform backend: the
// job post catalog and the signup and login endpoints.
package api

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jonathan/talentalb/internal/logging"
	"github.com/jonathan/talentalb/internal/schemas"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "talentalb-cli/1.0"

// maxErrorBody caps how much of a failed response body is kept in an HTTPError.
const maxErrorBody = 4 << 10

// HTTPClient is the subset of *http.Client the client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError is a non-2xx response. Body holds the (possibly truncated) response text.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s", e.StatusCode, e.StatusText)
	if e.Body != "" {
		msg += "\n" + e.Body
	}
	return msg
}

// Error is a request that could not be completed or whose body could not be used.
type Error struct {
	Method  string
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error for %s %s: %s: %v", e.Method, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error for %s %s: %s", e.Method, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCanceled reports whether err comes from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient HTTPClient // overrides Timeout when set
	// RateLimit caps requests per second; 0 disables pacing.
	RateLimit float64
	// SkipSchemaValidation turns off JSON Schema checks of response bodies.
	SkipSchemaValidation bool
	Logger               *zap.Logger
}

// DefaultOptions returns sensible defaults for a local backend.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   "http://localhost:8080",
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the backend REST API.
type Client struct {
	base      *url.URL
	http      HTTPClient
	userAgent string
	limiter   *rate.Limiter
	validate  bool
	logger    *zap.Logger
}

// NewClient returns a client for opts.BaseURL.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := &Client{
		base:      base,
		http:      httpClient,
		userAgent: userAgent,
		validate:  !opts.SkipSchemaValidation,
		logger:    logging.OrNop(opts.Logger),
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do sends one request and decodes a 2xx JSON body into out after checking it
// against schema (when non-empty).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, schema string, out any) error {
	target := c.endpoint(path, query)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Method: method, URL: target, Message: "failed to encode request body", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Method: method, URL: target, Message: "rate limiter wait aborted", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Method: method, URL: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Method: method, URL: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	if err != nil {
		return &Error{Method: method, URL: target, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(raw))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       text,
		}
	}

	if out == nil {
		return nil
	}
	if c.validate && schema != "" {
		if err := schemas.Validate(schema, raw); err != nil {
			return &Error{Method: method, URL: target, Message: "unexpected response shape", Cause: err}
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Method: method, URL: target, Message: "failed to decode response body", Cause: err}
	}
	return nil
}
