// Package handlers serves the BARO GREEN admin dashboard: a JSON API over
// the moderation store and the server-rendered HTML page.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"barogreen/internal/moderation"

	"github.com/rs/zerolog/log"
)

// Config holds handler configuration options
type Config struct {
	// AuditLimit caps how many audit entries GET /api/audit returns when the
	// request does not ask for fewer
	AuditLimit int
}

// DefaultConfig returns the handler settings used by the server
func DefaultConfig() Config {
	return Config{AuditLimit: 100}
}

// Handler contains all HTTP handler methods and their dependencies.
type Handler struct {
	store  *moderation.Service
	audit  moderation.AuditStore
	config Config
}

// NewHandler creates a Handler over the moderation store. The audit trail
// is read from the store's own AuditStore.
func NewHandler(store *moderation.Service, config Config) *Handler {
	if config.AuditLimit <= 0 {
		config.AuditLimit = DefaultConfig().AuditLimit
	}
	return &Handler{
		store:  store,
		audit:  store.AuditLog(),
		config: config,
	}
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any, entityName string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode " + entityName + " response")
	}
}

// errorResponse is the body of every JSON error
type errorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missingFields,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg}, "error")
}

// parseID reads a positive integer id, reporting false when it is missing
// or malformed
func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseLimit reads an optional limit, clamped to max
func parseLimit(raw string, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return max
	}
	return n
}
