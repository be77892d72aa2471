// Package nbastats is a client for the stats.nba.com JSON endpoints PlayDex
// reads plays, games and rosters from.
package nbastats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/reddy-lalith/PlayDex/internal/config"
	"github.com/reddy-lalith/PlayDex/internal/observability"
)

// Client calls upstream endpoints with pacing and retries. It is safe for
// concurrent use; the pacing limiter is shared by all callers.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	headers        http.Header
	limiter        *rate.Limiter
	maxAttempts    int
	baseDelay      time.Duration
	rateMultiplier int
	logger         *observability.Logger
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleep replaces the backoff sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a client from upstream configuration.
func NewClient(cfg config.UpstreamConfig, logger *observability.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = observability.NopLogger()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := cfg.RateLimitMultiplier
	if multiplier < 1 {
		multiplier = 1
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	headers := make(http.Header)
	for k, v := range cfg.Headers {
		switch strings.ToLower(k) {
		case "host", "accept-encoding":
			// derived from the URL / negotiated by the transport
			continue
		}
		headers.Set(k, v)
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		headers:        headers,
		limiter:        rate.NewLimiter(limit, 1),
		maxAttempts:    attempts,
		baseDelay:      cfg.BaseDelay,
		rateMultiplier: multiplier,
		logger:         logger.WithComponent("nbastats"),
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches endpoint with params, retrying transient failures with a
// linearly growing backoff. Rate-limited attempts wait rateMultiplier times
// longer.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.do(ctx, endpoint, params)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !errors.Is(err, ErrUpstreamTransient) || ctx.Err() != nil {
			return nil, err
		}
		if attempt == c.maxAttempts {
			break
		}

		delay := time.Duration(attempt) * c.baseDelay
		if errors.Is(err, ErrUpstreamRateLimited) {
			delay *= time.Duration(c.rateMultiplier)
		}
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Err(err).
			Msg("Retrying upstream call")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	c.logger.Warn().
		Str("endpoint", endpoint).
		Int("attempts", c.maxAttempts).
		Err(lastErr).
		Msg("Upstream call failed after retries")
	return nil, fmt.Errorf("%s after %d attempts: %w", endpoint, c.maxAttempts, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isNetworkError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTransient, err)
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstreamTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: %s status %d", ErrUpstreamStatus, endpoint, resp.StatusCode)
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
