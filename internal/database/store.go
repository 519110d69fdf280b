// Package database selects and opens the backend that keeps the moderation
// audit trail.
package database

import (
	"context"
	"errors"
	"fmt"

	"barogreen/internal/database/boltstore"
	"barogreen/internal/database/sqlitestore"
	"barogreen/internal/moderation"

	"github.com/rs/zerolog/log"
)

// Backend names an audit store implementation
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBolt   Backend = "bolt"
	BackendSQLite Backend = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name
var ErrUnknownBackend = errors.New("database: unknown audit backend")

// Valid reports whether b names a supported backend
func (b Backend) Valid() bool {
	switch b {
	case BackendMemory, BackendBolt, BackendSQLite:
		return true
	}
	return false
}

// AuditStore is an audit trail that holds resources until closed
type AuditStore interface {
	moderation.AuditStore
	Close() error
}

type closingStore struct {
	moderation.AuditStore
	close func() error
}

func (s closingStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open returns the audit store for backend. path is the database file for
// the bolt and sqlite backends and is ignored for memory.
func Open(ctx context.Context, backend Backend, path string) (AuditStore, error) {
	switch backend {
	case BackendMemory, "":
		log.Info().Msg("database: audit trail kept in memory")
		return closingStore{AuditStore: moderation.NewMemoryAuditStore()}, nil

	case BackendBolt:
		opts := boltstore.DefaultOptions()
		if path != "" {
			opts.Path = path
		}
		store, err := boltstore.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt audit store: %w", err)
		}
		log.Info().Str("path", opts.Path).Msg("database: audit trail stored in bolt")
		return closingStore{AuditStore: store.AuditStore(), close: store.Close}, nil

	case BackendSQLite:
		if path == "" {
			path = "barogreen-audit.sqlite"
		}
		db, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite audit store: %w", err)
		}
		log.Info().Str("path", path).Msg("database: audit trail stored in sqlite")
		return closingStore{AuditStore: sqlitestore.NewAuditStore(db), close: db.Close}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
