package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type contextKey string

const cspNonceKey contextKey = "csp_nonce"

// maxBodyBytes caps form submissions; the largest is the company form.
const maxBodyBytes = 1 << 20

// CSPNonceFromContext returns the script nonce for the current request
func CSPNonceFromContext(ctx context.Context) string {
	if nonce, ok := ctx.Value(cspNonceKey).(string); ok {
		return nonce
	}
	return ""
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SecurityHeadersMiddleware sets the standard browser hardening headers and a
// per-request CSP nonce for inline scripts in the dashboard.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			log.Error().Err(err).Msg("Failed to generate CSP nonce")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Content-Security-Policy", strings.Join([]string{
			"default-src 'self'",
			"script-src 'self' 'nonce-" + nonce + "'",
			"style-src 'self' 'unsafe-inline'",
			"img-src 'self' data:",
			"form-action 'self'",
			"frame-ancestors 'none'",
		}, "; "))

		ctx := context.WithValue(r.Context(), cspNonceKey, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LimitBodyMiddleware caps request bodies so oversized forms fail to parse
func LimitBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

type visitor struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-IP request counter
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	cleanup  time.Duration
	lastGC   time.Time
}

// NewRateLimiter allows rate requests per window for each client IP
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		cleanup:  2 * window,
	}
}

// Allow records a request from ip and reports whether it is within the limit
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastGC) > rl.cleanup {
		for k, v := range rl.visitors {
			if now.After(v.resetAt) {
				delete(rl.visitors, k)
			}
		}
		rl.lastGC = now
	}

	v, ok := rl.visitors[ip]
	if !ok || now.After(v.resetAt) {
		rl.visitors[ip] = &visitor{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	if v.count >= rl.rate {
		return false
	}
	v.count++
	return true
}

// RateLimitConfig holds the limiters applied by RateLimitMiddleware.
// WriteLimiter covers state-changing requests, GlobalLimiter everything else.
type RateLimitConfig struct {
	WriteLimiter  *RateLimiter
	GlobalLimiter *RateLimiter
}

// NewDefaultRateLimitConfig returns limits suited to a single-operator dashboard
func NewDefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		WriteLimiter:  NewRateLimiter(60, time.Minute),
		GlobalLimiter: NewRateLimiter(600, time.Minute),
	}
}

// RateLimitMiddleware rejects clients that exceed their limiter with 429
func RateLimitMiddleware(config *RateLimitConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = NewDefaultRateLimitConfig()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := config.GlobalLimiter
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				limiter = config.WriteLimiter
			}
			if limiter != nil && !limiter.Allow(GetClientIP(r)) {
				log.Warn().
					Str("client_ip", GetClientIP(r)).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
