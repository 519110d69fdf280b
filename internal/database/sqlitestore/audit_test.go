package sqlitestore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"barogreen/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestAuditStore(t *testing.T) *AuditStore {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "audit.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return NewAuditStore(db)
}

func TestAuditStore_LogAndList(t *testing.T) {
	ctx := context.Background()
	store := setupTestAuditStore(t)

	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	for i := range 4 {
		err := store.LogAction(ctx, moderation.AuditEntry{
			ID:        fmt.Sprintf("e%d", i),
			Entity:    moderation.EntityUser,
			Action:    moderation.ActionWarn,
			TargetID:  i + 1,
			Outcome:   moderation.OutcomeApplied,
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	entries, err := store.ListAuditLog(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e3", entries[0].ID)
	assert.Equal(t, "e2", entries[1].ID)
	assert.Equal(t, moderation.EntityUser, entries[0].Entity)
	assert.Equal(t, moderation.ActionWarn, entries[0].Action)
	assert.Equal(t, 4, entries[0].TargetID)
	assert.True(t, base.Add(3*time.Millisecond).Equal(entries[0].Timestamp))
	assert.Nil(t, entries[0].Details)

	all, err := store.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestAuditStore_Details(t *testing.T) {
	ctx := context.Background()
	store := setupTestAuditStore(t)

	err := store.LogAction(ctx, moderation.AuditEntry{
		ID:        "x",
		Entity:    moderation.EntityPost,
		Action:    moderation.ActionDelete,
		TargetID:  104,
		Outcome:   moderation.OutcomeRemoved,
		Details:   map[string]string{"removed_comments": "505,506"},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)

	entries, err := store.ListAuditLogForTarget(ctx, moderation.EntityPost, 104, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "505,506", entries[0].Details["removed_comments"])

	entries, err = store.ListAuditLogForTarget(ctx, moderation.EntityComment, 104, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuditStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	store := setupTestAuditStore(t)

	entry := moderation.AuditEntry{ID: "dup", Entity: moderation.EntityUser, Timestamp: time.Now()}
	require.NoError(t, store.LogAction(ctx, entry))
	assert.Error(t, store.LogAction(ctx, entry))
}

func TestAuditStore_CountByOutcome(t *testing.T) {
	ctx := context.Background()
	store := setupTestAuditStore(t)

	svc := moderation.NewService(moderation.WithAuditStore(store))
	svc.ApplyAction(ctx, moderation.EntityUser, moderation.ActionSuspend, 1)
	svc.ApplyAction(ctx, moderation.EntityUser, moderation.ActionSuspend, 999)
	svc.ApplyAction(ctx, moderation.EntityCompany, moderation.ActionEdit, 10)
	svc.ApplyAction(ctx, moderation.EntityComment, moderation.ActionSuspend, 501)

	counts, err := store.CountByOutcome(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[moderation.Outcome]int{
		moderation.OutcomeApplied:      1,
		moderation.OutcomeNotFound:     1,
		moderation.OutcomeAcknowledged: 1,
		moderation.OutcomeIgnored:      1,
	}, counts)

	entries, err := store.ListAuditLog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, moderation.EntityComment, entries[0].Entity)
}
