// Package store persists session checkpoints. Two backends are
// provided: one JSON file per session with atomic writes, and a SQLite
// database in WAL mode. Both enforce optimistic concurrency: a Put
// whose session version does not match the stored version fails with a
// conflict instead of clobbering newer state.
package store

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is "json" or "sqlite".
	Backend string
	// Dir is the checkpoint directory for the JSON backend.
	Dir string
	// DBPath is the database file for the SQLite backend.
	DBPath string
}

// New creates a state store for the configured backend.
func New(cfg Config, logger *logging.Logger) (core.StateStore, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	switch cfg.Backend {
	case "", "json":
		return NewJSONStore(cfg.Dir, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.DBPath, logger)
	default:
		return nil, core.ErrValidation("UNKNOWN_BACKEND",
			fmt.Sprintf("unknown state backend %q (want json or sqlite)", cfg.Backend))
	}
}
