package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"barogreen/internal/database"
	"barogreen/internal/moderation"
	"barogreen/internal/view"

	"github.com/google/go-querystring/query"
)

// TestContext contains test dependencies
type TestContext struct {
	Handler   *Handler
	Store     *moderation.Service
	MockAudit *database.MockAuditStore

	mu     sync.Mutex
	logged []moderation.AuditEntry
}

// NewTestContext creates a handler over a fresh fixture store whose audit
// trail is captured by a mock. opts are applied after the defaults, so
// WithSnapshot replaces the fixtures.
func NewTestContext(opts ...moderation.Option) *TestContext {
	tc := &TestContext{}
	tc.MockAudit = &database.MockAuditStore{
		LogActionFunc: func(ctx context.Context, entry moderation.AuditEntry) error {
			tc.mu.Lock()
			defer tc.mu.Unlock()
			tc.logged = append(tc.logged, entry)
			return nil
		},
	}
	tc.Store = moderation.NewService(append([]moderation.Option{
		moderation.WithAuditStore(tc.MockAudit),
		moderation.WithClock(func() time.Time {
			return time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC)
		}),
	}, opts...)...)
	tc.Handler = NewHandler(tc.Store, DefaultConfig())
	return tc
}

// Logged returns the audit entries written so far
func (tc *TestContext) Logged() []moderation.AuditEntry {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]moderation.AuditEntry(nil), tc.logged...)
}

// stateQuery encodes a view state the way the dashboard links do
func stateQuery(s view.State) string {
	v, err := query.Values(s)
	if err != nil {
		panic(err)
	}
	return v.Encode()
}

// NewFormRequest creates a POST request carrying form values
func NewFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// actionForm builds the fields of an action button
func actionForm(entity moderation.EntityType, action moderation.Action, id string) url.Values {
	return url.Values{
		"entity": {string(entity)},
		"action": {string(action)},
		"id":     {id},
	}
}

// openUserReport returns the fixtures with user report 3 (against user 2)
// still awaiting a decision
func openUserReport() moderation.Snapshot {
	snap := moderation.Fixtures()
	for i := range snap.Reports {
		if snap.Reports[i].ID == 3 {
			snap.Reports[i].Status = moderation.ReportStatusReceived
		}
	}
	return snap
}
