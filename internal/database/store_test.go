package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"barogreen/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend Backend
		path    string
	}{
		{BackendMemory, ""},
		{"", ""},
		{BackendBolt, filepath.Join(dir, "audit.db")},
		{BackendSQLite, filepath.Join(dir, "audit.sqlite")},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ctx := context.Background()
			store, err := Open(ctx, tt.backend, tt.path)
			require.NoError(t, err)
			defer store.Close()

			err = store.LogAction(ctx, moderation.AuditEntry{
				ID:        "3lbtest000001",
				Entity:    moderation.EntityCompany,
				Action:    moderation.ActionSuspend,
				TargetID:  10,
				Outcome:   moderation.OutcomeApplied,
				Timestamp: time.Now(),
			})
			require.NoError(t, err)

			entries, err := store.ListAuditLog(ctx, 10)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "업체:10", entries[0].Target())
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Backend("postgres"), "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.False(t, Backend("postgres").Valid())
	assert.True(t, BackendSQLite.Valid())
}

func TestMockAuditStore(t *testing.T) {
	var logged []moderation.AuditEntry
	mock := &MockAuditStore{
		LogActionFunc: func(ctx context.Context, entry moderation.AuditEntry) error {
			logged = append(logged, entry)
			return nil
		},
	}

	svc := moderation.NewService(moderation.WithAuditStore(mock))
	svc.ApplyAction(context.Background(), moderation.EntityUser, moderation.ActionWarn, 3)

	require.Len(t, logged, 1)
	assert.Equal(t, moderation.OutcomeApplied, logged[0].Outcome)

	entries, err := mock.ListAuditLog(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, entries)
	assert.NoError(t, mock.Close())
}
