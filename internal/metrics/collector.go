package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StatsSource provides functions to retrieve current counts for gauge metrics.
// Nil functions are skipped.
type StatsSource struct {
	RecordCountByCollection  func() map[string]int
	PendingReportsByCategory func() map[string]int
	VisibleCommentCount      func() int
}

// StartCollector launches a goroutine that periodically updates gauge metrics.
// It runs every interval until the context is cancelled.
func StartCollector(ctx context.Context, src StatsSource, interval time.Duration) {
	// Do an initial collection immediately
	Collect(src)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				Collect(src)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Metrics collector started")
}

// Collect updates every gauge from src once.
func Collect(src StatsSource) {
	if src.RecordCountByCollection != nil {
		for collection, count := range src.RecordCountByCollection() {
			RecordsByCollection.WithLabelValues(collection).Set(float64(count))
		}
	}
	if src.PendingReportsByCategory != nil {
		for category, count := range src.PendingReportsByCategory() {
			PendingReports.WithLabelValues(category).Set(float64(count))
		}
	}
	if src.VisibleCommentCount != nil {
		VisibleComments.Set(float64(src.VisibleCommentCount()))
	}
}
