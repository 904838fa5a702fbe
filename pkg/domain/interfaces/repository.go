package interfaces

import (
	"context"

	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// StateStore keeps the latest view state of every panel. Begin issues a
// new sequence for a panel; Commit stores a view only when its sequence is
// still the newest one issued, and reports whether it did.
type StateStore interface {
	Begin(ctx context.Context, id types.PanelID) (types.Sequence, error)
	Commit(ctx context.Context, id types.PanelID, seq types.Sequence, view *model.PanelView) (bool, error)
	// Release ends a load that will never commit, such as one whose scope
	// was closed. It only affects the panel when seq is the newest.
	Release(ctx context.Context, id types.PanelID, seq types.Sequence) error
	Get(ctx context.Context, id types.PanelID) (*model.PanelState, error)
	List(ctx context.Context) ([]*model.PanelState, error)
	Close() error
}
