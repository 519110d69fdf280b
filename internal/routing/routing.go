package routing

import (
	"net/http"

	"barogreen/internal/handlers"
	"barogreen/internal/middleware"
	"barogreen/internal/web/pages"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers *handlers.Handler
	Logger   zerolog.Logger

	// CSRF enables double-submit token checks on unsafe methods when set
	CSRF *middleware.CSRFConfig
	// RateLimit overrides the default per-IP limits
	RateLimit *middleware.RateLimitConfig
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Create CrossOriginProtection for CSRF protection
	cop := http.NewCrossOriginProtection()

	// Server-rendered dashboard
	mux.Handle("GET /{$}", http.RedirectHandler(pages.AdminPath, http.StatusFound))
	mux.HandleFunc("GET "+pages.AdminPath, h.HandleAdmin)
	mux.Handle("POST "+pages.AdminActionPath, cop.Handler(http.HandlerFunc(h.HandleAdminAction)))
	mux.Handle("POST "+pages.AdminCompanyPath, cop.Handler(http.HandlerFunc(h.HandleAdminCompany)))

	// JSON API over the moderation store
	mux.HandleFunc("GET /api/dashboard", h.HandleDashboard)
	mux.HandleFunc("GET /api/users", h.HandleListUsers)
	mux.HandleFunc("GET /api/posts", h.HandleListPosts)
	mux.HandleFunc("GET /api/posts/{id}", h.HandlePostDetail)
	mux.HandleFunc("GET /api/comments", h.HandleListComments)
	mux.HandleFunc("GET /api/reports", h.HandleListReports)
	mux.HandleFunc("GET /api/companies", h.HandleListCompanies)
	mux.HandleFunc("GET /api/audit", h.HandleAuditLog)

	mux.Handle("POST /api/actions", cop.Handler(http.HandlerFunc(h.HandleAction)))
	mux.Handle("POST /api/companies", cop.Handler(http.HandlerFunc(h.HandleAddCompany)))

	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (innermost first, outermost last)
	var handler http.Handler = mux

	// 1. CSRF token check, reads the form so it sits inside the body limit
	if cfg.CSRF != nil {
		handler = middleware.CSRFMiddleware(cfg.CSRF)(handler)
	}

	// 2. Limit request body size
	handler = middleware.LimitBodyMiddleware(handler)

	// 3. Apply rate limiting
	rateLimitConfig := cfg.RateLimit
	if rateLimitConfig == nil {
		rateLimitConfig = middleware.NewDefaultRateLimitConfig()
	}
	handler = middleware.RateLimitMiddleware(rateLimitConfig)(handler)

	// 4. Apply security headers and the CSP nonce
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 5. Compress responses
	handler = gzhttp.GzipHandler(handler)

	// 6. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 7. Request ids, outside logging so every log line carries one
	handler = middleware.RequestIDMiddleware(handler)

	// 8. Trace every request (outermost)
	handler = otelhttp.NewHandler(handler, "barogreen",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return handler
}
