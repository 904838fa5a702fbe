package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/secmon-lab/trialdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Dashboard holds panel loading behavior
type Dashboard struct {
	Fallback    string
	Concurrency int
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "fallback",
			Usage:       "What a panel shows when its data cannot be loaded (error, empty, placeholder)",
			Category:    "Dashboard",
			Value:       string(types.FallbackError),
			Sources:     cli.EnvVars("TRIALDASH_FALLBACK"),
			Destination: &d.Fallback,
		},
		&cli.IntFlag{
			Name:        "page-concurrency",
			Usage:       "Panels of one page loaded at the same time",
			Category:    "Dashboard",
			Value:       4,
			Sources:     cli.EnvVars("TRIALDASH_PAGE_CONCURRENCY"),
			Destination: &d.Concurrency,
		},
	}
}

// Configure builds the dashboard settings
func (d *Dashboard) Configure() (*usecase.DashboardConfig, error) {
	mode, err := types.ParseFallbackMode(d.Fallback)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --fallback")
	}
	if d.Concurrency < 1 {
		return nil, goerr.New("page concurrency must be at least 1", goerr.V("concurrency", d.Concurrency))
	}

	return usecase.NewDashboardConfig(
		usecase.WithFallback(mode),
		usecase.WithConcurrency(d.Concurrency),
	), nil
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("fallback", d.Fallback),
		slog.Int("concurrency", d.Concurrency),
	)
}
