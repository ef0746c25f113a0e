// Package fetch provides the shared HTTP client used by every source
// fetcher: a browser-like header baseline plus bounded retry with
// exponential backoff.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// baseHeaders mimic a modern browser. Several of the polled services
// filter requests with generic user agents or missing headers.
var baseHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Referer":         "https://www.google.com/",
}

// StatusError reports a non-2xx response that survived retries.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Retryable reports whether the status suggests a transient condition.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client issues GET requests with merged headers and retry.
type Client struct {
	http   *http.Client
	retry  *RetryPolicy
	logger *zap.Logger
}

// NewClient constructs a Client. Nil retry and logger get defaults.
func NewClient(timeout time.Duration, retry *RetryPolicy, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retry == nil {
		retry = DefaultRetryPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		retry:  retry,
		logger: logger,
	}
}

// Get fetches rawURL with the given query parameters. Caller headers
// override the browser baseline. Transient failures (transport errors,
// 429, 5xx) are retried per the policy; other statuses fail fast.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers http.Header) ([]byte, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}
	var lastErr error
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, target, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !c.retry.ShouldRetry(err, attempt+1) {
			return nil, lastErr
		}
		c.logger.Warn("request failed, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retry.Backoff(attempt)):
		}
	}
}

// GetJSON fetches and decodes a JSON payload into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, headers http.Header, v any) error {
	body, err := c.Get(ctx, rawURL, params, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target string, headers http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range baseHeaders {
		req.Header.Set(k, v)
	}
	for k, vs := range headers {
		if len(vs) > 0 {
			req.Header.Set(k, vs[0])
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
