package edgar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	// VERSION is this module's release version. It is not added to the
	// User-Agent header, which is sent exactly as the caller supplies it.
	VERSION = "0.4.0"

	// SecUAEnvVar is the environment variable fallback for the User-Agent.
	SecUAEnvVar = "SEC_UA"

	// DefaultTimeout is the per-request timeout in seconds.
	DefaultTimeout = 40
	// DefaultMinInterval is the minimum spacing between requests, in seconds.
	DefaultMinInterval = 0.25
	// DefaultMaxBytes caps a single response body.
	DefaultMaxBytes = 25 * 1024 * 1024

	maxAttempts    = 7
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// GetSecUserAgent reads the User-Agent string from the SEC_UA environment
// variable and returns an error when it is unset or empty.
func GetSecUserAgent() (string, error) {
	ua := os.Getenv(SecUAEnvVar)
	if ua == "" {
		return "", eris.Errorf("SEC user agent required: set %s environment variable or use --user-agent", SecUAEnvVar)
	}
	return ua, nil
}

// Client fetches resources from SEC EDGAR with bounded retries, exponential
// backoff, and a shared rate limiter. Zero value is not usable; build one
// with NewClient.
type Client struct {
	http      *http.Client
	limiter   *RateLimiter
	userAgent string
	maxBytes  int64
}

// ClientOptions configures a Client.
type ClientOptions struct {
	UserAgent   string
	TimeoutSecs int
	MinInterval float64
	MaxBytes    int64
}

// NewClient builds a Client. UserAgent must be non-empty; SEC rejects
// anonymous traffic.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.UserAgent == "" {
		return nil, eris.New("user agent is required for SEC requests")
	}
	timeout := opts.TimeoutSecs
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Client{
		http:      &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter:   NewRateLimiter(opts.MinInterval),
		userAgent: opts.UserAgent,
		maxBytes:  maxBytes,
	}, nil
}

// get executes GET url with the retry/backoff policy described in the
// component design: the rate limiter is invoked inside the loop so that
// retries themselves observe the minimum interval. A 404 is returned to the
// caller as a normal response, not an error; other 4xx status codes are
// terminal.
func (c *Client) get(ctx context.Context, url string) (*http.Response, []byte, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, eris.Wrap(err, "rate limiter wait")
		}

		resp, body, err := c.attempt(ctx, url)
		if err == nil {
			return resp, body, nil
		}

		if !isRetryable(err) {
			return nil, nil, err
		}

		lastErr = err
		zap.L().Warn("sec request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, nil, err
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return nil, nil, eris.Wrapf(lastErr, "failed to fetch %s after %d attempts", url, maxAttempts)
}

// retryableError wraps a transient failure so the retry loop above can tell
// it apart from a terminal one without resorting to string matching.
type retryableError struct{ err error }

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

func (c *Client) attempt(ctx context.Context, url string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, eris.Wrap(err, "building request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &retryableError{eris.Wrapf(err, "GET %s", url)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := readLimited(resp.Body, c.maxBytes)
		if err != nil {
			return nil, nil, err
		}
		return resp, body, nil
	case http.StatusNotFound:
		return resp, nil, nil
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, nil, &retryableError{eris.Errorf("HTTP %d for %s", resp.StatusCode, url)}
	default:
		return nil, nil, eris.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
}

// readLimited reads up to maxBytes+1 so it can distinguish "exactly at the
// cap" from "over the cap" without buffering an unbounded response.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "reading response body")
	}
	if int64(len(body)) > maxBytes {
		return nil, eris.Errorf("response too large (> %d bytes)", maxBytes)
	}
	return body, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// GetJSON fetches url and decodes it as JSON. A 404 is reported as an error
// here because callers of GetJSON never expect a "missing" JSON payload.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	resp, body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrapf(err, "parsing JSON from %s", url)
	}
	return nil
}

// GetText fetches url and returns the status code and body as a string, so
// callers can implement fallback logic on non-200 responses (e.g. the
// FilingSummary.xml name-case fallback).
func (c *Client) GetText(ctx context.Context, url string) (int, string, error) {
	resp, body, err := c.get(ctx, url)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

// GetBytes fetches url and returns the status code and raw body.
func (c *Client) GetBytes(ctx context.Context, url string) (int, []byte, error) {
	resp, body, err := c.get(ctx, url)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
