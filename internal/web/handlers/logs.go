package handlers

import (
	"net/http"
	"time"
)

// ListLogs handles GET /logs
func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, h.store.ListLogs(r.Context()))
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok","time":"` + time.Now().Format(time.RFC3339) + `"}`))
}
