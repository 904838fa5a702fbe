package async

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs handler in a new goroutine with panic recovery. The handler
// gets a context detached from ctx's cancellation that keeps its values.
// The returned channel is closed when the handler returns.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) <-chan struct{} {
	logger := ctxlog.From(ctx).With(slog.String("task", name))
	newCtx := ctxlog.With(context.WithoutCancel(ctx), logger)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in async task",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			logger.Error("Error in async task", "error", err)
		}
	}()

	return done
}
