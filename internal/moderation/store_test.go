package moderation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAuditStore(t *testing.T) {
	store := NewMemoryAuditStore()
	ctx := context.Background()

	entries, err := store.ListAuditLog(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		err := store.LogAction(ctx, AuditEntry{
			ID:        fmt.Sprintf("entry-%d", i),
			Entity:    EntityUser,
			Action:    ActionWarn,
			TargetID:  i,
			Outcome:   OutcomeApplied,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	entries, err = store.ListAuditLog(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "entry-4", entries[0].ID)
	assert.Equal(t, "entry-3", entries[1].ID)
	assert.Equal(t, "entry-2", entries[2].ID)

	entries, err = store.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestMemoryAuditStore_CopiesDetails(t *testing.T) {
	store := NewMemoryAuditStore()
	ctx := context.Background()

	details := map[string]string{"name": "a"}
	require.NoError(t, store.LogAction(ctx, AuditEntry{ID: "x", Details: details}))
	details["name"] = "changed"

	entries, err := store.ListAuditLog(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", entries[0].Details["name"])

	entries[0].Details["name"] = "mutated"
	again, err := store.ListAuditLog(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Details["name"])
}

func TestMemoryAuditStore_ForTarget(t *testing.T) {
	store := NewMemoryAuditStore()
	ctx := context.Background()

	require.NoError(t, store.LogAction(ctx, AuditEntry{ID: "a", Entity: EntityUser, TargetID: 1}))
	require.NoError(t, store.LogAction(ctx, AuditEntry{ID: "b", Entity: EntityComment, TargetID: 1}))
	require.NoError(t, store.LogAction(ctx, AuditEntry{ID: "c", Entity: EntityUser, TargetID: 1}))
	require.NoError(t, store.LogAction(ctx, AuditEntry{ID: "d", Entity: EntityUser, TargetID: 2}))

	entries, err := store.ListAuditLogForTarget(ctx, EntityUser, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "a", entries[1].ID)

	entries, err = store.ListAuditLogForTarget(ctx, EntityUser, 1, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = store.ListAuditLogForTarget(ctx, EntityReport, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
