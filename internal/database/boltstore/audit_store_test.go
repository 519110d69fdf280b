package boltstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"barogreen/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func setupTestAuditStore(t *testing.T) (*Store, *AuditStore) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(Options{Path: dbPath})
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store, store.AuditStore()
}

func TestAuditLog(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestAuditStore(t)

	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

	t.Run("empty log", func(t *testing.T) {
		entries, err := store.ListAuditLog(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("log and list newest first", func(t *testing.T) {
		for i := range 5 {
			err := store.LogAction(ctx, moderation.AuditEntry{
				ID:        fmt.Sprintf("entry%d", i),
				Entity:    moderation.EntityComment,
				Action:    moderation.ActionDelete,
				TargetID:  500 + i,
				Outcome:   moderation.OutcomeApplied,
				Timestamp: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		entries, err := store.ListAuditLog(ctx, 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "entry4", entries[0].ID)
		assert.Equal(t, "entry3", entries[1].ID)
		assert.Equal(t, "entry2", entries[2].ID)

		all, err := store.ListAuditLog(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		count, err := store.CountAuditEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("round trips fields", func(t *testing.T) {
		entry := moderation.AuditEntry{
			ID:        "detail1",
			Entity:    moderation.EntityReport,
			Action:    moderation.ActionSuspend,
			TargetID:  3,
			Outcome:   moderation.OutcomeApplied,
			Details:   map[string]string{"cascade_user": "2", "cascade_outcome": "applied"},
			Timestamp: base.Add(time.Hour),
		}
		require.NoError(t, store.LogAction(ctx, entry))

		entries, err := store.ListAuditLog(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.Equal(t, entry.Entity, entries[0].Entity)
		assert.Equal(t, entry.Details, entries[0].Details)
		assert.True(t, entry.Timestamp.Equal(entries[0].Timestamp))
	})
}

func TestAuditLog_SameTimestamp(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestAuditStore(t)

	ts := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.LogAction(ctx, moderation.AuditEntry{ID: "3kaaaaaaaaaa2", Timestamp: ts}))
	require.NoError(t, store.LogAction(ctx, moderation.AuditEntry{ID: "3kaaaaaaaaab2", Timestamp: ts}))

	entries, err := store.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2, "entries with equal timestamps must not overwrite each other")
	assert.Equal(t, "3kaaaaaaaaab2", entries[0].ID)
}

func TestAuditLog_ForTarget(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestAuditStore(t)

	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	log := func(id string, entity moderation.EntityType, target int, offset time.Duration) {
		require.NoError(t, store.LogAction(ctx, moderation.AuditEntry{
			ID: id, Entity: entity, TargetID: target, Timestamp: base.Add(offset),
		}))
	}
	log("a", moderation.EntityUser, 1, 0)
	log("b", moderation.EntityUser, 2, time.Second)
	log("c", moderation.EntityUser, 1, 2*time.Second)
	log("d", moderation.EntityCompany, 1, 3*time.Second)

	entries, err := store.ListAuditLogForTarget(ctx, moderation.EntityUser, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "a", entries[1].ID)

	entries, err = store.ListAuditLogForTarget(ctx, moderation.EntityPost, 101, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuditLog_SkipsMalformed(t *testing.T) {
	ctx := context.Background()
	db, store := setupTestAuditStore(t)

	require.NoError(t, store.LogAction(ctx, moderation.AuditEntry{ID: "good", Timestamp: time.Now()}))
	err := db.DB().Update(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketAuditLog).Put([]byte("99999999999999999999:bad"), []byte("{not json"))
	})
	require.NoError(t, err)

	entries, err := store.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].ID)
}

func TestServiceWithBoltAudit(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestAuditStore(t)

	svc := moderation.NewService(moderation.WithAuditStore(store))
	svc.ApplyAction(ctx, moderation.EntityPost, moderation.ActionDelete, 104)
	svc.ApplyAction(ctx, moderation.EntityComment, moderation.ActionDelete, 503)

	entries, err := store.ListAuditLog(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, moderation.EntityComment, entries[0].Entity)
	assert.Equal(t, 503, entries[0].TargetID)
	assert.Equal(t, "505,506", entries[1].Details["removed_comments"])
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")
	store, err := Open(Options{Path: path})
	require.NoError(t, err)
	defer store.Close()

	err = store.DB().View(func(tx *bolt.Tx) error {
		assert.NotNil(t, tx.Bucket(BucketAuditLog))
		assert.NotNil(t, tx.Bucket(BucketAuditByTarget))
		return nil
	})
	require.NoError(t, err)
}
