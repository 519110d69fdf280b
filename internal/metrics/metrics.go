package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baro_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "baro_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})

	CSRFRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baro_csrf_rejections_total",
		Help: "Total number of unsafe requests refused for a missing or mismatched CSRF token",
	}, []string{"reason"})
)

// Moderation event counters (incremented on occurrence)
var (
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baro_actions_total",
		Help: "Total number of moderation actions by entity, action and outcome",
	}, []string{"entity", "action", "outcome"})

	ActionsDeclinedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baro_actions_declined_total",
		Help: "Total number of destructive actions cancelled at confirmation",
	}, []string{"entity"})

	CompaniesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baro_companies_created_total",
		Help: "Total number of companies registered",
	})

	CompanyRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "baro_company_rejections_total",
		Help: "Total number of company registrations rejected for missing fields",
	})
)

// Dataset gauges (updated periodically by collector)
var (
	RecordsByCollection = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "baro_records",
		Help: "Number of records held per collection",
	}, []string{"collection"})

	PendingReports = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "baro_pending_reports",
		Help: "Number of reports received or in progress by category",
	}, []string{"category"})

	VisibleComments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "baro_visible_comments",
		Help: "Number of comments not soft-deleted",
	})
)

// GaugeValue reads the current value of a prometheus.Gauge.
func GaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		return 0
	}
	if m.Gauge != nil {
		return m.GetGauge().GetValue()
	}
	return 0
}

// CounterValue reads the current value of a prometheus.Counter.
func CounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// NormalizePath reduces high-cardinality path labels by replacing dynamic
// segments with placeholders. This keeps the metric label space bounded.
func NormalizePath(path string) string {
	// Static assets - collapse into one label
	if len(path) > 8 && path[:8] == "/static/" {
		return "/static/*"
	}

	segments := splitPath(path)
	if len(segments) < 2 {
		return path
	}

	switch segments[0] {
	case "api":
		if len(segments) == 3 {
			switch segments[1] {
			case "posts", "users", "comments", "reports", "companies":
				return "/api/" + segments[1] + "/:id"
			}
		}
	case "admin":
		return "/admin/*"
	}

	return path
}

func splitPath(path string) []string {
	// Skip leading slash
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	var segments []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	if start < len(path) {
		segments = append(segments, path[start:])
	}
	return segments
}
