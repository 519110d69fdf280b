package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"barogreen/internal/moderation"
)

// AuditStore implements moderation.AuditStore using SQLite.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates an AuditStore backed by the given database.
// The database must already have the schema applied (see Open).
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Ensure AuditStore implements the interface at compile time.
var _ moderation.AuditStore = (*AuditStore)(nil)

// timestamps are stored in a fixed-width UTC form so that text order is
// time order
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func (s *AuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil || entry.Details == nil {
		details = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO moderation_audit_log (id, entity, action, target_id, outcome, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, string(entry.Entity), string(entry.Action), entry.TargetID, string(entry.Outcome),
		string(details), entry.Timestamp.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("log action: %w", err)
	}
	return nil
}

func (s *AuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity, action, target_id, outcome, details, timestamp
		FROM moderation_audit_log ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return scanEntries(rows)
}

func (s *AuditStore) ListAuditLogForTarget(ctx context.Context, entity moderation.EntityType, id int, limit int) ([]moderation.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity, action, target_id, outcome, details, timestamp
		FROM moderation_audit_log WHERE entity = ? AND target_id = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?
	`, string(entity), id, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log for target: %w", err)
	}
	return scanEntries(rows)
}

// CountByOutcome returns how many logged actions ended with each outcome
func (s *AuditStore) CountByOutcome(ctx context.Context) (map[moderation.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM moderation_audit_log GROUP BY outcome
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[moderation.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[moderation.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]moderation.AuditEntry, error) {
	defer rows.Close()

	var entries []moderation.AuditEntry
	for rows.Next() {
		var e moderation.AuditEntry
		var entity, action, outcome, detailsStr, timestampStr string
		if err := rows.Scan(&e.ID, &entity, &action, &e.TargetID, &outcome, &detailsStr, &timestampStr); err != nil {
			continue
		}
		e.Entity = moderation.EntityType(entity)
		e.Action = moderation.Action(action)
		e.Outcome = moderation.Outcome(outcome)
		e.Timestamp, _ = time.Parse(timestampLayout, timestampStr)
		_ = json.Unmarshal([]byte(detailsStr), &e.Details)
		if len(e.Details) == 0 {
			e.Details = nil
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
