package boltstore

import (
	"context"
	"encoding/json"
	"fmt"

	"barogreen/internal/moderation"
	"barogreen/internal/tracing"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

// AuditStore implements moderation.AuditStore using BoltDB.
type AuditStore struct {
	db *bolt.DB
}

var _ moderation.AuditStore = (*AuditStore)(nil)

// auditKey orders entries chronologically. The timestamp is zero-padded so
// that byte order matches time order; the id keeps keys unique.
func auditKey(entry moderation.AuditEntry) []byte {
	return fmt.Appendf(nil, "%020d:%s", entry.Timestamp.UnixNano(), entry.ID)
}

// LogAction stores a moderation action in the audit log.
func (s *AuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) (err error) {
	_, span := tracing.AuditSpan(ctx, "bolt", "log_action")
	defer span.End()
	defer func() { tracing.EndWithError(span, err) }()

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketAuditLog)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketAuditLog)
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal audit entry: %w", err)
		}

		key := auditKey(entry)
		if err := bucket.Put(key, data); err != nil {
			return err
		}

		// Index: target -> nested bucket of audit keys
		index := tx.Bucket(BucketAuditByTarget)
		if index == nil {
			return fmt.Errorf("bucket not found: %s", BucketAuditByTarget)
		}
		targetBucket, err := index.CreateBucketIfNotExists([]byte(entry.Target()))
		if err != nil {
			return fmt.Errorf("failed to create target index: %w", err)
		}
		return targetBucket.Put(key, []byte{})
	})
}

// ListAuditLog returns the most recent audit log entries.
// Entries are returned in reverse chronological order (newest first).
func (s *AuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	var entries []moderation.AuditEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketAuditLog)
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry moderation.AuditEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				log.Warn().Err(err).Bytes("key", k).Msg("audit: skipping malformed entry")
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}

	return entries, nil
}

// ListAuditLogForTarget returns the audit entries recorded against one
// record, newest first.
func (s *AuditStore) ListAuditLogForTarget(ctx context.Context, entity moderation.EntityType, id int, limit int) ([]moderation.AuditEntry, error) {
	target := moderation.AuditEntry{Entity: entity, TargetID: id}.Target()
	var entries []moderation.AuditEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(BucketAuditByTarget)
		if index == nil {
			return nil
		}
		targetBucket := index.Bucket([]byte(target))
		if targetBucket == nil {
			return nil
		}
		bucket := tx.Bucket(BucketAuditLog)

		c := targetBucket.Cursor()
		for k, _ := c.Last(); k != nil; k, _ = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			data := bucket.Get(k)
			if data == nil {
				continue
			}
			var entry moderation.AuditEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log for %s: %w", target, err)
	}

	return entries, nil
}

// CountAuditEntries returns the number of stored audit entries.
func (s *AuditStore) CountAuditEntries(ctx context.Context) (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketAuditLog)
		if bucket == nil {
			return nil
		}
		count = bucket.Stats().KeyN
		return nil
	})
	return count, err
}
