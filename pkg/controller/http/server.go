package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/trialdash/frontend"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

type serverConfig struct {
	corsOrigins    []string
	brotliQuality  int
	frontendFS     http.FileSystem
	useEmbeddedApp bool
}

// Option configures the HTTP server
type Option func(*serverConfig)

// WithCORSOrigins sets the origins allowed to call the API from a browser
func WithCORSOrigins(origins ...string) Option {
	return func(c *serverConfig) {
		c.corsOrigins = origins
	}
}

// WithBrotliQuality sets the brotli compression level, 0 to 11
func WithBrotliQuality(q int) Option {
	return func(c *serverConfig) {
		c.brotliQuality = q
	}
}

// WithFrontendFS serves the dashboard from fs instead of the embedded build
func WithFrontendFS(fs http.FileSystem) Option {
	return func(c *serverConfig) {
		c.frontendFS = fs
		c.useEmbeddedApp = false
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, dashboard interfaces.Dashboard, renderer interfaces.Renderer, opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		corsOrigins:    []string{"*"},
		brotliQuality:  5,
		useEmbeddedApp: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(CORS(cfg.corsOrigins))
	router.Use(Brotli(cfg.brotliQuality))

	h := &handler{dashboard: dashboard, renderer: renderer}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/pages", h.listPages)
		r.Get("/pages/{page}", h.getPage)
		r.Get("/states", h.listPanelStates)
		r.Route("/panels/{panel}", func(r chi.Router) {
			r.Get("/", h.getPanel)
			r.Get("/chart.svg", h.getPanelChart)
			r.Get("/rows", h.getPanelRows)
			r.Get("/state", h.getPanelState)
		})
	})

	fs := cfg.frontendFS
	if cfg.useEmbeddedApp {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback", "error", err)
		}
		fs = embedded
	}

	if fs != nil {
		spa, err := NewSPAHandler(fs)
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to create SPA handler, using fallback", "error", err)
			router.Get("/*", handleFallbackHome)
		} else {
			router.Handle("/*", spa)
		}
	} else {
		router.Get("/*", handleFallbackHome)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>trialdash</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; margin: 3rem; color: #065f46; }
        code { background: #ecfdf5; padding: 0.1rem 0.3rem; }
    </style>
</head>
<body>
    <h1>trialdash</h1>
    <p>Clinical trial monitoring dashboard. The web build is not bundled.</p>
    <p>Page index: <a href="/api/pages"><code>/api/pages</code></a></p>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}
