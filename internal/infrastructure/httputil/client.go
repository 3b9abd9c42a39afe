// Package httputil holds the JSON-over-HTTP plumbing shared by the feed and catalog
// clients: rate limiting, retries with backoff and compressed bodies.
package httputil

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxErrorBody = 512

// Config holds the transport settings of a Client
type Config struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	MaxRetries    int
	BaseBackoff   time.Duration
	UserAgent     string
}

// StatusError is returned for a non-2xx response that was not retried
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client performs rate-limited GET requests that decode JSON bodies
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	baseBackoff time.Duration
	userAgent   string
	log         logrus.FieldLogger
}

// NewClient creates a client. Zero config values fall back to defaults.
func NewClient(config Config, logger logrus.FieldLogger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Limit(config.RatePerSecond)
	if config.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	retries := config.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	backoff := config.BaseBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "RappelScan/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter: rate.NewLimiter(limit, burst),
		maxRetries:  retries,
		baseBackoff: backoff,
		userAgent:   userAgent,
		log:         logger,
	}
}

// GetJSON fetches reqURL and decodes the body into out.
// Transport errors, 429 and 5xx responses are retried; other statuses return a
// *StatusError immediately.
func (c *Client) GetJSON(ctx context.Context, reqURL string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		body, status, err := c.get(ctx, reqURL)
		if err != nil {
			c.log.WithError(err).WithField("attempt", attempt).Debug("Request failed")
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			lastErr = &StatusError{StatusCode: status, Body: truncate(body)}
			c.log.WithFields(logrus.Fields{"attempt": attempt, "status": status}).Debug("Retryable status")
			continue
		}
		if status < 200 || status > 299 {
			return &StatusError{StatusCode: status, Body: truncate(body)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// backoff doubles the base delay on every retry
func (c *Client) backoff(retry int) time.Duration {
	return c.baseBackoff * time.Duration(1<<(retry-1))
}

// ReadBody reads and decompresses an HTTP response body
func ReadBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	return io.ReadAll(reader)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}
