package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mariadmin/mariadmin/internal/store"
)

// Handlers contains all HTTP handlers. Each handler calls one store
// operation and writes the resulting envelope; the store never lets an
// error escape, so every response is 200-with-envelope.
type Handlers struct {
	store *store.Store
}

// New creates a new Handlers instance
func New(st *store.Store) *Handlers {
	return &Handlers{store: st}
}

// writeEnvelope serializes a store response as JSON.
func (h *Handlers) writeEnvelope(w http.ResponseWriter, resp *store.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
