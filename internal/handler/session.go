package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/session"
)

type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/refresh", h.Refresh)
	r.Get("/info", h.Info)

	return r
}

// POST /api/session/refresh
// Re-resolves the session and returns the current user snapshot.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Load(r.Context(), r)
	if err != nil {
		log.Error().Err(err).Msg("session refresh: load failed")
		writeError(w, err)
		return
	}

	if record == nil || record.User == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "No active session",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": record.User,
	})
}

// GET /api/session/info
// Diagnostics: peek at the session record without touching its access time.
func (h *SessionHandler) Info(w http.ResponseWriter, r *http.Request) {
	entity, err := h.store.Entity(r.Context(), r)
	if err != nil {
		log.Error().Err(err).Msg("session info: resolve failed")
		writeError(w, err)
		return
	}

	if entity == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "No active session",
		})
		return
	}

	info, err := entity.Info(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("session info: read failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}
