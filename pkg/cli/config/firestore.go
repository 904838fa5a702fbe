package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trialdash/pkg/domain/interfaces"
	"github.com/secmon-lab/trialdash/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Firestore holds the panel state store configuration
type Firestore struct {
	ProjectID  string
	DatabaseID string
	Collection string
}

// Flags returns CLI flags for Firestore configuration
func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for storing panel states in Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("TRIALDASH_FIRESTORE_PROJECT"),
			Destination: &f.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("TRIALDASH_FIRESTORE_DATABASE"),
			Destination: &f.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for panel states",
			Category:    "Firestore",
			Value:       "panel_states",
			Sources:     cli.EnvVars("TRIALDASH_FIRESTORE_COLLECTION"),
			Destination: &f.Collection,
		},
	}
}

// Configure returns the panel state store. Without a project the states
// live in memory.
func (f *Firestore) Configure(ctx context.Context) (interfaces.StateStore, error) {
	if !f.IsConfigured() {
		ctxlog.From(ctx).Debug("Using memory state store; panel states are lost on shutdown")
		return repository.NewMemory(), nil
	}

	var opts []repository.FirestoreOption
	if f.Collection != "" {
		opts = append(opts, repository.WithCollection(f.Collection))
	}

	store, err := repository.NewFirestore(ctx, f.ProjectID, f.DatabaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init firestore",
			goerr.V("project", f.ProjectID),
			goerr.V("database", f.DatabaseID),
		)
	}

	return store, nil
}

// IsConfigured checks if Firestore is properly configured
func (f *Firestore) IsConfigured() bool {
	return f.ProjectID != ""
}

// LogValue returns structured log value
func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", f.ProjectID),
		slog.String("database", f.DatabaseID),
		slog.String("collection", f.Collection),
	)
}
