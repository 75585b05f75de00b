// Package httpretry provides an HTTP client that retries rate limited and
// failed upstream calls with capped exponential backoff.
//
// The client satisfies the HTTPDoer interface used by the OpenAI adapters,
// so every provider call in askdoc goes through it.
package httpretry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/logger"
)

// Retry reasons reported to the OnRetry hook.
const (
	ReasonRateLimited = "rate_limited"
	ReasonServerError = "server_error"
	ReasonTransport   = "transport"
)

// Config configures the retrying client.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay after the first failed attempt.
	BaseDelay time.Duration

	// MaxDelay caps the computed backoff. A Retry-After header is not capped.
	MaxDelay time.Duration

	// RequestsPerSecond throttles outbound requests. Zero disables it.
	RequestsPerSecond float64

	// Burst is the throttle bucket size. Defaults to 1.
	Burst int

	// Timeout bounds a single attempt. Zero means no limit.
	Timeout time.Duration

	// OnRetry is called before each backoff sleep.
	OnRetry func(reason string, delay time.Duration)
}

// Option customises the client.
type Option func(*Client)

// WithTransport replaces the underlying HTTP client.
func WithTransport(doer *http.Client) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithSleep replaces the backoff sleep. Used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// Client retries requests according to its Config.
type Client struct {
	http     *http.Client
	limiter  *rate.Limiter
	attempts int
	base     time.Duration
	max      time.Duration
	onRetry  func(reason string, delay time.Duration)
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a retrying client with defaults applied to zero fields.
func New(cfg Config, opts ...Option) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = domain.DefaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = domain.DefaultMaxDelay
	}

	c := &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		attempts: cfg.MaxAttempts,
		base:     cfg.BaseDelay,
		max:      cfg.MaxDelay,
		onRetry:  cfg.OnRetry,
		sleep:    sleepContext,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends the request, retrying 429, 5xx and transport failures.
// Other 4xx responses are returned unchanged. When attempts are exhausted
// the response is nil and the error wraps domain.ErrUpstreamUnavailable,
// plus domain.ErrRateLimited if the last attempt was rate limited.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	body, err := readBody(req)
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}

	var lastErr error
	lastStatus := 0
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}

		resp, err := c.http.Do(cloneRequest(ctx, req, body))

		var delay time.Duration
		var reason string
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr, lastStatus = err, 0
			reason, delay = ReasonTransport, c.backoff(attempt)
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr, lastStatus = fmt.Errorf("upstream returned %s", resp.Status), resp.StatusCode
			reason = ReasonRateLimited
			delay = retryAfter(resp.Header.Get("Retry-After"), c.backoff(attempt))
			drain(resp)
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr, lastStatus = fmt.Errorf("upstream returned %s", resp.Status), resp.StatusCode
			reason, delay = ReasonServerError, c.backoff(attempt)
			drain(resp)
		default:
			return resp, nil
		}

		if attempt == c.attempts {
			break
		}

		logger.Debug("httpretry: %s %s attempt %d/%d failed (%v), retrying in %s",
			req.Method, req.URL.Path, attempt, c.attempts, lastErr, delay)
		if c.onRetry != nil {
			c.onRetry(reason, delay)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	if lastStatus == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s %s after %d attempts: %w: %w: %w",
			req.Method, req.URL.Path, c.attempts, domain.ErrUpstreamUnavailable, domain.ErrRateLimited, lastErr)
	}
	return nil, fmt.Errorf("%s %s after %d attempts: %w: %w",
		req.Method, req.URL.Path, c.attempts, domain.ErrUpstreamUnavailable, lastErr)
}

// backoff returns min(max, base * 2^(attempt-1)).
func (c *Client) backoff(attempt int) time.Duration {
	d := c.base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.max {
			return c.max
		}
	}
	if d > c.max {
		return c.max
	}
	return d
}

// retryAfter parses an integer seconds header, falling back when absent or malformed.
func retryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	return io.ReadAll(req.Body)
}

func cloneRequest(ctx context.Context, req *http.Request, body []byte) *http.Request {
	clone := req.Clone(ctx)
	if body == nil {
		clone.Body = http.NoBody
		clone.GetBody = nil
		return clone
	}
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.ContentLength = int64(len(body))
	clone.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return clone
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
