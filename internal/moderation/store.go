package moderation

import (
	"context"
	"maps"
	"sync"
)

// AuditStore persists the trail of moderation actions.
// Implementations must be safe for concurrent use.
type AuditStore interface {
	// LogAction appends an entry to the audit trail
	LogAction(ctx context.Context, entry AuditEntry) error
	// ListAuditLog returns up to limit entries, newest first.
	// A limit <= 0 returns every entry.
	ListAuditLog(ctx context.Context, limit int) ([]AuditEntry, error)
	// ListAuditLogForTarget returns up to limit entries recorded against
	// one record, newest first
	ListAuditLogForTarget(ctx context.Context, entity EntityType, id int, limit int) ([]AuditEntry, error)
}

// MemoryAuditStore keeps the audit trail in process memory
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries []AuditEntry
}

// NewMemoryAuditStore creates an empty in-memory audit store
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (s *MemoryAuditStore) LogAction(ctx context.Context, entry AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, copyEntry(entry))
	return nil
}

func (s *MemoryAuditStore) ListAuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	result := make([]AuditEntry, 0, limit)
	for i := n - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, copyEntry(s.entries[i]))
	}
	return result, nil
}

func (s *MemoryAuditStore) ListAuditLogForTarget(ctx context.Context, entity EntityType, id int, limit int) ([]AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []AuditEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		e := s.entries[i]
		if e.Entity == entity && e.TargetID == id {
			result = append(result, copyEntry(e))
		}
	}
	return result, nil
}

func copyEntry(e AuditEntry) AuditEntry {
	e.Details = maps.Clone(e.Details)
	return e
}
