package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/service/analytics"
	"github.com/urfave/cli/v3"
)

// Analytics holds the analytics API client configuration
type Analytics struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Flags returns CLI flags for Analytics configuration
func (a *Analytics) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-base-url",
			Usage:       "Base URL of the analytics REST API",
			Category:    "Analytics",
			Value:       "http://localhost:8000/api",
			Sources:     cli.EnvVars("TRIALDASH_API_BASE_URL"),
			Destination: &a.BaseURL,
		},
		&cli.DurationFlag{
			Name:        "api-timeout",
			Usage:       "Timeout of one analytics request",
			Category:    "Analytics",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("TRIALDASH_API_TIMEOUT"),
			Destination: &a.Timeout,
		},
		&cli.IntFlag{
			Name:        "api-retries",
			Usage:       "Retries after a transport error or 5xx response",
			Category:    "Analytics",
			Value:       1,
			Sources:     cli.EnvVars("TRIALDASH_API_RETRIES"),
			Destination: &a.Retries,
		},
		&cli.DurationFlag{
			Name:        "api-retry-delay",
			Usage:       "Delay between analytics retries",
			Category:    "Analytics",
			Value:       500 * time.Millisecond,
			Sources:     cli.EnvVars("TRIALDASH_API_RETRY_DELAY"),
			Destination: &a.RetryDelay,
		},
	}
}

// Configure creates the analytics client from the flags
func (a *Analytics) Configure() (*analytics.Client, error) {
	if a.Timeout <= 0 {
		return nil, goerr.New("api timeout must be positive", goerr.V("timeout", a.Timeout))
	}
	if a.Retries < 0 {
		return nil, goerr.New("api retries must not be negative", goerr.V("retries", a.Retries))
	}

	client, err := analytics.New(analytics.Config{
		BaseURL:    a.BaseURL,
		Timeout:    a.Timeout,
		Retries:    a.Retries,
		RetryDelay: a.RetryDelay,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create analytics client")
	}
	return client, nil
}

// LogValue returns structured log value
func (a Analytics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", a.BaseURL),
		slog.Duration("timeout", a.Timeout),
		slog.Int("retries", a.Retries),
		slog.Duration("retry_delay", a.RetryDelay),
	)
}
