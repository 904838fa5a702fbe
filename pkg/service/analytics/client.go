package analytics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrTagTransport marks failures to reach the analytics API
	ErrTagTransport = goerr.NewTag("analytics_transport")
	// ErrTagStatus marks non-2xx responses
	ErrTagStatus = goerr.NewTag("analytics_status")
	// ErrTagUpstream marks 2xx responses carrying an error object
	ErrTagUpstream = goerr.NewTag("analytics_upstream")
	// ErrTagUnexpectedShape marks bodies no shape matcher accepts
	ErrTagUnexpectedShape = goerr.NewTag("analytics_unexpected_shape")
)

const maxBodySize = 16 << 20

// Config holds the analytics API settings. It is built once at startup and
// handed to New; the client never reads settings from anywhere else.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// Client fetches raw JSON from the analytics REST API
type Client struct {
	baseURL    string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	httpClient *http.Client
}

// New creates a new analytics client
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid analytics base URL", goerr.V("base_url", cfg.BaseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("analytics base URL must be http or https", goerr.V("base_url", cfg.BaseURL))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch performs a GET on endpoint and returns the response body.
// Transport errors and 5xx responses are retried.
func (c *Client) Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	logger := ctxlog.From(ctx)
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying analytics request",
				slog.String("url", target),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, goerr.Wrap(ctx.Err(), "analytics request canceled",
					goerr.V("url", target), goerr.T(ErrTagTransport))
			case <-time.After(c.retryDelay):
			}
		}

		body, retry, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, target string) ([]byte, bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to create analytics request", goerr.V("url", target))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, goerr.Wrap(err, "failed to call analytics API",
			goerr.V("url", target), goerr.T(ErrTagTransport))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, goerr.Wrap(err, "failed to read analytics response",
			goerr.V("url", target), goerr.T(ErrTagTransport))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode >= 500, goerr.New("analytics API returned error status",
			goerr.V("url", target),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(body), 256)),
			goerr.T(ErrTagStatus))
	}

	return body, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
