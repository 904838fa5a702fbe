package cli_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/trialdash/pkg/cli"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
)

func TestPrefetchTask(t *testing.T) {
	t.Run("shutdown stops prefetch without error", func(t *testing.T) {
		dashboard := &mocks.DashboardMock{
			PrefetchFunc: func(ctx context.Context) error {
				<-ctx.Done()
				return goerr.Wrap(model.ErrScopeClosed, "failed to prefetch panels")
			},
		}
		shutdown := make(chan struct{})
		task := cli.PrefetchTask(dashboard, shutdown)

		errCh := make(chan error, 1)
		go func() { errCh <- task(context.Background()) }()
		close(shutdown)

		select {
		case err := <-errCh:
			gt.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("prefetch did not stop on shutdown")
		}
		gt.A(t, dashboard.PrefetchCalls()).Length(1)
	})

	t.Run("other failures are returned", func(t *testing.T) {
		dashboard := &mocks.DashboardMock{
			PrefetchFunc: func(ctx context.Context) error {
				return errors.New("store unavailable")
			},
		}
		err := cli.PrefetchTask(dashboard, make(chan struct{}))(context.Background())
		gt.Error(t, err)
	})

	t.Run("completed prefetch returns nil", func(t *testing.T) {
		dashboard := &mocks.DashboardMock{
			PrefetchFunc: func(ctx context.Context) error { return nil },
		}
		gt.NoError(t, cli.PrefetchTask(dashboard, make(chan struct{}))(context.Background()))
	})
}
