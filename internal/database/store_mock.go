package database

import (
	"context"

	"barogreen/internal/moderation"
)

// MockAuditStore is a mock implementation of the AuditStore interface for testing.
// Uses function fields to allow tests to inject custom behavior.
type MockAuditStore struct {
	LogActionFunc             func(ctx context.Context, entry moderation.AuditEntry) error
	ListAuditLogFunc          func(ctx context.Context, limit int) ([]moderation.AuditEntry, error)
	ListAuditLogForTargetFunc func(ctx context.Context, entity moderation.EntityType, id int, limit int) ([]moderation.AuditEntry, error)
	CloseFunc                 func() error
}

// LogAction calls the mock function or returns nil if not set
func (m *MockAuditStore) LogAction(ctx context.Context, entry moderation.AuditEntry) error {
	if m.LogActionFunc != nil {
		return m.LogActionFunc(ctx, entry)
	}
	return nil
}

// ListAuditLog calls the mock function or returns nil if not set
func (m *MockAuditStore) ListAuditLog(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
	if m.ListAuditLogFunc != nil {
		return m.ListAuditLogFunc(ctx, limit)
	}
	return nil, nil
}

// ListAuditLogForTarget calls the mock function or returns nil if not set
func (m *MockAuditStore) ListAuditLogForTarget(ctx context.Context, entity moderation.EntityType, id int, limit int) ([]moderation.AuditEntry, error) {
	if m.ListAuditLogForTargetFunc != nil {
		return m.ListAuditLogForTargetFunc(ctx, entity, id, limit)
	}
	return nil, nil
}

// Close calls the mock function or returns nil if not set
func (m *MockAuditStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure MockAuditStore implements AuditStore
var _ AuditStore = (*MockAuditStore)(nil)
