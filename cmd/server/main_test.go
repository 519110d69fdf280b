package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"barogreen/internal/config"
	"barogreen/internal/database"
	"barogreen/internal/metrics"
	"barogreen/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsSource(t *testing.T) {
	store := moderation.NewService()
	src := statsSource(store)

	assert.Equal(t, 5, src.RecordCountByCollection()["users"])
	assert.Equal(t, map[string]int{"illegal_dumping": 2, "community_abuse": 1}, src.PendingReportsByCategory())
	assert.Equal(t, 6, src.VisibleCommentCount())

	metrics.Collect(src)
	assert.Equal(t, float64(6), metrics.GaugeValue(metrics.VisibleComments))
}

func TestCSRFConfig_SecureCookies(t *testing.T) {
	cfg, err := config.Load(func(k string) string {
		if k == "SECURE_COOKIES" {
			return "true"
		}
		return ""
	})
	require.NoError(t, err)
	assert.True(t, csrfConfig(cfg).SecureCookie)
	assert.False(t, csrfConfig(config.Default()).SecureCookie)
}

func TestPrintAudit(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Audit.Backend = string(database.BackendBolt)
	cfg.Audit.Path = filepath.Join(t.TempDir(), "audit.db")

	audit, err := database.Open(ctx, database.BackendBolt, cfg.Audit.Path)
	require.NoError(t, err)
	store := moderation.NewService(moderation.WithAuditStore(audit))
	store.ApplyAction(ctx, moderation.EntityCompany, moderation.ActionSuspend, 10)
	require.NoError(t, audit.Close())

	var out bytes.Buffer
	require.NoError(t, printAudit(ctx, &out, cfg, 10))
	assert.Contains(t, out.String(), "업체:10")
	assert.Contains(t, out.String(), "applied")
}

func TestPrintAudit_MemoryBackend(t *testing.T) {
	var out bytes.Buffer
	err := printAudit(context.Background(), &out, config.Default(), 10)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
