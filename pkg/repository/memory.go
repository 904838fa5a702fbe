package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
)

// Memory implements StateStore with in-memory storage
type Memory struct {
	mu     sync.RWMutex
	states map[types.PanelID]*model.PanelState
	now    func() time.Time
}

// NewMemory creates a new memory state store
func NewMemory() interfaces.StateStore {
	return newMemory(time.Now)
}

func newMemory(now func() time.Time) *Memory {
	return &Memory{
		states: make(map[types.PanelID]*model.PanelState),
		now:    now,
	}
}

// Begin issues the next sequence for a panel and marks it loading
func (m *Memory) Begin(ctx context.Context, id types.PanelID) (types.Sequence, error) {
	if id == "" {
		return 0, goerr.New("panel ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, exists := m.states[id]
	if !exists {
		state = &model.PanelState{PanelID: id, Status: types.FetchStatusIdle}
		m.states[id] = state
	}
	state.Latest++
	state.Status = types.FetchStatusLoading
	state.UpdatedAt = m.now()

	return state.Latest, nil
}

// Commit stores the view if seq is still the newest sequence of the panel
func (m *Memory) Commit(ctx context.Context, id types.PanelID, seq types.Sequence, view *model.PanelView) (bool, error) {
	if id == "" {
		return false, goerr.New("panel ID is empty")
	}
	if view == nil {
		return false, goerr.New("panel view is nil", goerr.V("panelID", id))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, exists := m.states[id]
	if !exists {
		return false, goerr.New("commit without begin", goerr.V("panelID", id), goerr.V("seq", seq))
	}
	if seq != state.Latest {
		return false, nil
	}

	viewCopy := *view
	viewCopy.Seq = seq
	state.View = &viewCopy
	state.Status = view.Status
	state.UpdatedAt = m.now()

	return true, nil
}

// Release ends a load that will not commit. The panel returns to the
// status of its last committed view, or idle.
func (m *Memory) Release(ctx context.Context, id types.PanelID, seq types.Sequence) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, exists := m.states[id]
	if !exists || seq != state.Latest || state.Status != types.FetchStatusLoading {
		return nil
	}

	if state.View != nil {
		state.Status = state.View.Status
	} else {
		state.Status = types.FetchStatusIdle
	}
	state.UpdatedAt = m.now()
	return nil
}

// Get returns the state of a panel. Panels never loaded are idle.
func (m *Memory) Get(ctx context.Context, id types.PanelID) (*model.PanelState, error) {
	if id == "" {
		return nil, goerr.New("panel ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	state, exists := m.states[id]
	if !exists {
		return &model.PanelState{PanelID: id, Status: types.FetchStatusIdle}, nil
	}

	return copyState(state), nil
}

// List returns the states of all panels that were ever loaded, by ID
func (m *Memory) List(ctx context.Context) ([]*model.PanelState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*model.PanelState, 0, len(m.states))
	for _, state := range m.states {
		states = append(states, copyState(state))
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].PanelID < states[j].PanelID
	})

	return states, nil
}

// Close is a no-op for the memory store
func (m *Memory) Close() error {
	return nil
}

// copyState returns a copy to prevent external modification
func copyState(state *model.PanelState) *model.PanelState {
	stateCopy := *state
	if state.View != nil {
		viewCopy := *state.View
		stateCopy.View = &viewCopy
	}
	return &stateCopy
}
