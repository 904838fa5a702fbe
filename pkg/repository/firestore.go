package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/domain/model"
	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultStatesCollection = "panel_states"

// panelStateDoc is the stored form of a PanelState. The view is kept as
// JSON because Firestore rejects the nested arrays a table view can carry.
type panelStateDoc struct {
	PanelID   string    `firestore:"panel_id"`
	Status    string    `firestore:"status"`
	Latest    int64     `firestore:"latest"`
	View      []byte    `firestore:"view,omitempty"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *panelStateDoc) toState() (*model.PanelState, error) {
	state := &model.PanelState{
		PanelID:   types.PanelID(d.PanelID),
		Status:    types.FetchStatus(d.Status),
		Latest:    types.Sequence(d.Latest),
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.View) > 0 {
		var view model.PanelView
		if err := json.Unmarshal(d.View, &view); err != nil {
			return nil, goerr.Wrap(err, "failed to decode stored panel view", goerr.V("panelID", d.PanelID))
		}
		state.View = &view
	}
	return state, nil
}

// FirestoreOption configures the Firestore state store
type FirestoreOption func(*Firestore)

// WithCollection stores panel states in the named collection
func WithCollection(name string) FirestoreOption {
	return func(f *Firestore) {
		f.collection = name
	}
}

// Firestore implements StateStore with Firestore. Sequence checks run in
// transactions so several server instances share one ordering per panel.
type Firestore struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

// NewFirestore creates a new Firestore state store
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...FirestoreOption) (interfaces.StateStore, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	f := &Firestore{
		client:     client,
		collection: defaultStatesCollection,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	// Fail fast on bad credentials or project; an empty collection is fine
	_, err = client.Collection(f.collection).Limit(1).Documents(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		if code := status.Code(err); code == codes.PermissionDenied || code == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", code.String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore state store initialized",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", f.collection,
	)

	return f, nil
}

func (f *Firestore) doc(id types.PanelID) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(id.String())
}

// load reads a panel document inside a transaction. A missing document
// yields an idle state.
func load(tx *firestore.Transaction, ref *firestore.DocumentRef, id types.PanelID) (*panelStateDoc, bool, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &panelStateDoc{PanelID: id.String(), Status: types.FetchStatusIdle.String()}, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get panel state from firestore", goerr.V("panelID", id))
	}

	var d panelStateDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, false, goerr.Wrap(err, "failed to decode panel state", goerr.V("panelID", id))
	}
	return &d, true, nil
}

// Begin issues the next sequence for a panel and marks it loading
func (f *Firestore) Begin(ctx context.Context, id types.PanelID) (types.Sequence, error) {
	if id == "" {
		return 0, goerr.New("panel ID is empty")
	}

	var seq types.Sequence
	ref := f.doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		d, _, err := load(tx, ref, id)
		if err != nil {
			return err
		}
		d.Latest++
		d.Status = types.FetchStatusLoading.String()
		d.UpdatedAt = f.now()
		seq = types.Sequence(d.Latest)
		return tx.Set(ref, d)
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to begin panel load", goerr.V("panelID", id))
	}

	return seq, nil
}

// Commit stores the view if seq is still the newest sequence of the panel
func (f *Firestore) Commit(ctx context.Context, id types.PanelID, seq types.Sequence, view *model.PanelView) (bool, error) {
	if id == "" {
		return false, goerr.New("panel ID is empty")
	}
	if view == nil {
		return false, goerr.New("panel view is nil", goerr.V("panelID", id))
	}

	viewCopy := *view
	viewCopy.Seq = seq
	raw, err := json.Marshal(&viewCopy)
	if err != nil {
		return false, goerr.Wrap(err, "failed to encode panel view", goerr.V("panelID", id))
	}

	var committed bool
	ref := f.doc(id)
	err = f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		committed = false
		d, exists, err := load(tx, ref, id)
		if err != nil {
			return err
		}
		if !exists {
			return goerr.New("commit without begin", goerr.V("panelID", id), goerr.V("seq", seq))
		}
		if types.Sequence(d.Latest) != seq {
			return nil
		}

		d.View = raw
		d.Status = view.Status.String()
		d.UpdatedAt = f.now()
		committed = true
		return tx.Set(ref, d)
	})
	if err != nil {
		return false, goerr.Wrap(err, "failed to commit panel view", goerr.V("panelID", id), goerr.V("seq", seq))
	}

	return committed, nil
}

// Release ends a load that will not commit. The panel returns to the
// status of its last committed view, or idle.
func (f *Firestore) Release(ctx context.Context, id types.PanelID, seq types.Sequence) error {
	ref := f.doc(id)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		d, exists, err := load(tx, ref, id)
		if err != nil {
			return err
		}
		if !exists || types.Sequence(d.Latest) != seq || d.Status != types.FetchStatusLoading.String() {
			return nil
		}

		state, err := d.toState()
		if err != nil {
			return err
		}
		if state.View != nil {
			d.Status = state.View.Status.String()
		} else {
			d.Status = types.FetchStatusIdle.String()
		}
		d.UpdatedAt = f.now()
		return tx.Set(ref, d)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to release panel load", goerr.V("panelID", id), goerr.V("seq", seq))
	}
	return nil
}

// Get returns the state of a panel. Panels never loaded are idle.
func (f *Firestore) Get(ctx context.Context, id types.PanelID) (*model.PanelState, error) {
	if id == "" {
		return nil, goerr.New("panel ID is empty")
	}

	snap, err := f.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &model.PanelState{PanelID: id, Status: types.FetchStatusIdle}, nil
		}
		return nil, goerr.Wrap(err, "failed to get panel state from firestore", goerr.V("panelID", id))
	}

	var d panelStateDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode panel state", goerr.V("panelID", id))
	}
	return d.toState()
}

// List returns the states of all panels that were ever loaded, by ID
func (f *Firestore) List(ctx context.Context) ([]*model.PanelState, error) {
	iter := f.client.Collection(f.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var states []*model.PanelState
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate panel states")
		}

		var d panelStateDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode panel state", goerr.V("docID", snap.Ref.ID))
		}
		state, err := d.toState()
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	return states, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
