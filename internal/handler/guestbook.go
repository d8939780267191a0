package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/middleware"
	"github.com/edgebook/guestbook-server-go/internal/model"
	"github.com/edgebook/guestbook-server-go/internal/repository"
)

const maxMessageLength = 500

type GuestbookHandler struct {
	entryRepo repository.GuestbookRepository
}

func NewGuestbookHandler(entryRepo repository.GuestbookRepository) *GuestbookHandler {
	return &GuestbookHandler{entryRepo: entryRepo}
}

func (h *GuestbookHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)

	return r
}

// GET /api/guestbook
func (h *GuestbookHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)

	entries, err := h.entryRepo.FindRecent(r.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		log.Error().Err(err).Msg("list guestbook: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch entries"})
		return
	}

	total, err := h.entryRepo.CountAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("count guestbook: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch entries"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
	})
}

// POST /api/guestbook
func (h *GuestbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req struct {
		Message string `json:"message"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" || len(message) > maxMessageLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Message must be between 1 and 500 characters",
		})
		return
	}

	// Country comes from the signing form's selector and is optional.
	var country *string
	if c := strings.TrimSpace(req.Country); c != "" {
		country = &c
	}

	entry, err := h.entryRepo.Create(r.Context(), model.CreateGuestbookEntryParams{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		AuthorName: user.Name,
		Message:    message,
		Country:    country,
	})
	if err != nil {
		log.Error().Err(err).Msg("create guestbook entry: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Unable to sign guestbook"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}
