package config

import (
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr          string
	CORSOrigins   []string
	BrotliQuality int
	Prefetch      bool
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("TRIALDASH_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Origin allowed to call the API from a browser, * for any",
			Category:    "Server",
			Value:       []string{"*"},
			Sources:     cli.EnvVars("TRIALDASH_CORS_ORIGINS"),
			Destination: &s.CORSOrigins,
		},
		&cli.IntFlag{
			Name:        "brotli-quality",
			Usage:       "Brotli compression level for responses (0-11)",
			Category:    "Server",
			Value:       5,
			Sources:     cli.EnvVars("TRIALDASH_BROTLI_QUALITY"),
			Destination: &s.BrotliQuality,
		},
		&cli.BoolFlag{
			Name:        "prefetch",
			Usage:       "Load every panel once at startup",
			Category:    "Server",
			Sources:     cli.EnvVars("TRIALDASH_PREFETCH"),
			Destination: &s.Prefetch,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("cors_origins", strings.Join(s.CORSOrigins, ",")),
		slog.Int("brotli_quality", s.BrotliQuality),
		slog.Bool("prefetch", s.Prefetch),
	)
}
