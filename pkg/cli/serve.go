package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/cli/config"
	controller "github.com/secmon-lab/trialdash/pkg/controller/http"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/service/render"
	"github.com/secmon-lab/trialdash/pkg/usecase"
	"github.com/secmon-lab/trialdash/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		analyticsCfg config.Analytics
		dashboardCfg config.Dashboard
		catalogCfg   config.Catalog
		firestoreCfg config.Firestore
	)

	flags := joinFlags(
		serverCfg.Flags(),
		analyticsCfg.Flags(),
		dashboardCfg.Flags(),
		catalogCfg.Flags(),
		firestoreCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting trialdash server",
				slog.Any("server", serverCfg),
				slog.Any("analytics", analyticsCfg),
				slog.Any("dashboard", dashboardCfg),
				slog.Any("catalog", catalogCfg),
				slog.Any("firestore", firestoreCfg),
			)

			catalog, err := catalogCfg.Load()
			if err != nil {
				return err
			}

			client, err := analyticsCfg.Configure()
			if err != nil {
				return err
			}

			dashCfg, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}

			store, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("Failed to close state store", "error", err)
				}
			}()

			renderer := render.New()
			dashboard := usecase.NewDashboard(catalog, client, store, renderer, dashCfg)

			server, err := controller.NewServer(ctx, serverCfg.Addr, dashboard, renderer,
				controller.WithCORSOrigins(serverCfg.CORSOrigins...),
				controller.WithBrotliQuality(serverCfg.BrotliQuality),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			shutdown := make(chan struct{})
			var prefetchDone <-chan struct{}
			if serverCfg.Prefetch {
				prefetchDone = async.Dispatch(ctx, "prefetch", prefetchTask(dashboard, shutdown))
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			close(shutdown)
			if prefetchDone != nil {
				<-prefetchDone
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// prefetchTask warms every panel until shutdown is closed. Stopping early
// on shutdown is not an error.
func prefetchTask(dashboard interfaces.Dashboard, shutdown <-chan struct{}) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-ctx.Done():
			}
		}()

		if err := dashboard.Prefetch(ctx); err != nil {
			if errors.Is(err, model.ErrScopeClosed) {
				ctxlog.From(ctx).Info("Prefetch stopped by shutdown")
				return nil
			}
			return err
		}
		return nil
	}
}
