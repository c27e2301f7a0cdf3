// Package handlers is the HTTP surface the screens talk to. Handlers
// validate input, resolve the caller's session, and read or write through
// the document store; they never hold derived state themselves.
package handlers

import (
	"encoding/json"
	"net/http"

	"famledger/session"
	"famledger/store"
)

// Handler bundles the dependencies every route needs.
type Handler struct {
	store    store.DocumentStore
	sessions *session.Manager
}

// New returns a Handler over the given store and session manager.
func New(st store.DocumentStore, sessions *session.Manager) *Handler {
	return &Handler{store: st, sessions: sessions}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
