package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"barogreen/internal/metrics"

	"github.com/rs/zerolog/log"
)

// The admin forms and the JSON API share one double-submit token. The
// csrf_token cookie is echoed back in the csrf_token form field by the
// dashboard forms, or in the X-CSRF-Token header by scripts.
const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	CSRFTokenFormField  = "csrf_token"

	// CSRFTokenTTL is the lifetime of the token cookie
	CSRFTokenTTL = 24 * time.Hour

	csrfTokenBytes = 32
)

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	// SecureCookie sets the Secure flag on the token cookie
	SecureCookie bool
	// TTL overrides CSRFTokenTTL when positive
	TTL time.Duration
}

// DefaultCSRFConfig returns the settings for plain HTTP development
func DefaultCSRFConfig() *CSRFConfig {
	return &CSRFConfig{TTL: CSRFTokenTTL}
}

const csrfTokenKey contextKey = "csrf_token"

// csrfRejection is why an unsafe request was refused. It labels
// baro_csrf_rejections_total.
type csrfRejection string

const (
	csrfMissing  csrfRejection = "missing"
	csrfMismatch csrfRejection = "mismatch"
)

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// safeMethod reports whether a method never changes moderation state
func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// token returns the request's CSRF token, issuing a cookie when it has none
func (c *CSRFConfig) token(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CSRFTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	token, err := newCSRFToken()
	if err != nil {
		return "", err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = CSRFTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFTokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // scripts echo it in the header
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(ttl.Seconds()),
	})
	return token, nil
}

// submittedCSRFToken reads the token echoed by a script header or a form
// body. Query parameters are never consulted.
func submittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(CSRFTokenHeaderName); token != "" {
		return token
	}
	return r.PostFormValue(CSRFTokenFormField)
}

// rejectCSRF answers 403 in the format the caller expects: JSON for the
// API, plain text for the admin forms.
func rejectCSRF(w http.ResponseWriter, r *http.Request, reason csrfRejection) {
	metrics.CSRFRejectionsTotal.WithLabelValues(string(reason)).Inc()
	log.Warn().
		Str("client_ip", GetClientIP(r)).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("reason", string(reason)).
		Msg("CSRF check failed")

	msg := "CSRF token " + string(reason)
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		http.Error(w, msg, http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		log.Error().Err(err).Msg("Failed to encode CSRF error response")
	}
}

// CSRFMiddleware checks the double-submit token on every unsafe request.
// Every response carries the token in the X-CSRF-Token header, and handlers
// read it with GetCSRFToken, so pages rendered on the first visit already
// embed the token the browser is about to store.
func CSRFMiddleware(config *CSRFConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCSRFConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := config.token(w, r)
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate CSRF token")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			w.Header().Set(CSRFTokenHeaderName, token)
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey, token))

			if safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			submitted := submittedCSRFToken(r)
			switch {
			case submitted == "":
				rejectCSRF(w, r, csrfMissing)
			case subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1:
				rejectCSRF(w, r, csrfMismatch)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// GetCSRFToken returns the token for the current request, preferring the one
// CSRFMiddleware placed in the context over the request cookie
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey).(string); ok && token != "" {
		return token
	}
	cookie, err := r.Cookie(CSRFTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
