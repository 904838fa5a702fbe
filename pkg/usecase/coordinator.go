package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"golang.org/x/sync/singleflight"
)

// Scope is a cancellation token for one component lifetime. Closing it
// cancels every wait started in it and blocks further commits from it.
type Scope struct {
	id     types.ScopeID
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
}

// ID returns the scope identifier
func (s *Scope) ID() types.ScopeID {
	return s.id
}

// Context returns the scope's context, canceled on Close
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Close cancels the scope. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancel()
}

// Closed reports whether the scope was closed or its parent canceled
func (s *Scope) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed || s.ctx.Err() != nil
}

// BuildFunc turns a fetched body, or the fetch error, into a panel view
type BuildFunc func(ctx context.Context, body []byte, fetchErr error) *model.PanelView

// LoadResult is the outcome of one panel load
type LoadResult struct {
	View *model.PanelView
	// Committed is false when a newer load of the same panel was issued
	// before this one finished; the view was then not stored.
	Committed bool
}

// Coordinator runs panel loads. Concurrent loads of the same data key
// share one upstream request, each load takes a new sequence for its
// panel, and only the newest sequence may commit.
type Coordinator struct {
	client interfaces.AnalyticsClient
	store  interfaces.StateStore
	group  singleflight.Group
}

// NewCoordinator creates a new coordinator
func NewCoordinator(client interfaces.AnalyticsClient, store interfaces.StateStore) *Coordinator {
	return &Coordinator{
		client: client,
		store:  store,
	}
}

// Open creates a scope bound to ctx
func (c *Coordinator) Open(ctx context.Context) *Scope {
	ctx, cancel := context.WithCancel(ctx)
	return &Scope{
		id:     types.NewScopeID(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Load fetches endpoint for panel within scope, builds the view and
// commits it if it is still the newest load of the panel.
func (c *Coordinator) Load(scope *Scope, panel types.PanelID, endpoint string, query url.Values, build BuildFunc) (*LoadResult, error) {
	ctx := scope.Context()
	logger := ctxlog.From(ctx).With(
		slog.String("panel", panel.String()),
		slog.String("scope", scope.ID().String()),
	)

	seq, err := c.store.Begin(ctx, panel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin panel load", goerr.V("panel", panel))
	}

	body, fetchErr := c.fetch(scope, endpoint, query)
	if scope.Closed() {
		c.release(ctx, panel, seq)
		return nil, goerr.Wrap(model.ErrScopeClosed, "panel load abandoned",
			goerr.V("panel", panel), goerr.V("seq", seq))
	}

	view := build(ctx, body, fetchErr)
	view.Seq = seq

	scope.mu.RLock()
	defer scope.mu.RUnlock()
	if scope.closed {
		c.release(ctx, panel, seq)
		return nil, goerr.Wrap(model.ErrScopeClosed, "panel load abandoned",
			goerr.V("panel", panel), goerr.V("seq", seq))
	}

	committed, err := c.store.Commit(ctx, panel, seq, view)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit panel view", goerr.V("panel", panel), goerr.V("seq", seq))
	}
	if !committed {
		logger.Debug("discarded stale panel result", slog.Uint64("seq", uint64(seq)))
	}

	return &LoadResult{View: view, Committed: committed}, nil
}

// fetch shares one upstream request per data key. The shared request is
// detached from the caller's cancellation and bounded by the client's
// request timeout. Each caller stops waiting when its own scope ends.
func (c *Coordinator) fetch(scope *Scope, endpoint string, query url.Values) ([]byte, error) {
	key := dataKey(endpoint, query)
	shared := context.WithoutCancel(scope.Context())

	ch := c.group.DoChan(key, func() (any, error) {
		return c.client.Fetch(shared, endpoint, query)
	})

	select {
	case <-scope.Context().Done():
		return nil, goerr.Wrap(scope.Context().Err(), "panel load canceled", goerr.V("key", key))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		body, _ := res.Val.([]byte)
		return body, nil
	}
}

func (c *Coordinator) release(ctx context.Context, panel types.PanelID, seq types.Sequence) {
	if err := c.store.Release(context.WithoutCancel(ctx), panel, seq); err != nil {
		ctxlog.From(ctx).Warn("failed to release panel load", "error", err, "panel", panel)
	}
}

func dataKey(endpoint string, query url.Values) string {
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}
