package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mariadmin/mariadmin/internal/store"
)

// ListUsers handles GET /users
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, h.store.ListUsers(r.Context()))
}

// AddUser handles POST /users/{username}/{password}
func (h *Handlers) AddUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	password := chi.URLParam(r, "password")
	h.writeEnvelope(w, h.store.AddUser(r.Context(), username, password))
}

// DeleteUser handles GET /users/{id} and DELETE /users/{id}. The GET form
// is kept for compatibility with existing callers.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.writeEnvelope(w, store.Failure("Invalid user id: %s", idStr))
		return
	}
	h.writeEnvelope(w, h.store.DeleteUser(r.Context(), id))
}
