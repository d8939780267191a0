package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/edgebook/guestbook-server-go/internal/middleware"
	"github.com/edgebook/guestbook-server-go/internal/repository"
	"github.com/edgebook/guestbook-server-go/internal/session"
)

type ProfileHandler struct {
	userRepo repository.UserRepository
	store    *session.Store
	validate *validator.Validate
}

func NewProfileHandler(userRepo repository.UserRepository, store *session.Store) *ProfileHandler {
	return &ProfileHandler{
		userRepo: userRepo,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Put("/", h.Update)
	r.Delete("/avatar", h.RemoveAvatar)

	return r
}

// GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	row, err := h.userRepo.FindByID(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Msg("get profile: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch profile"})
		return
	}
	if row == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": row})
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// PUT /api/profile
// Updates the profile row, then writes the fresh row through to the session
// so the next load serves it immediately.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Name must be between 1 and 50 characters",
		})
		return
	}

	updated, err := h.userRepo.UpdateName(r.Context(), user.ID, req.Name)
	if err != nil {
		log.Error().Err(err).Msg("update profile: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Unable to update profile"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	if err := h.store.UpdateUser(r.Context(), r, updated, true); err != nil {
		log.Error().Err(err).Msg("update profile: session write-through failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

// DELETE /api/profile/avatar
func (h *ProfileHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
		return
	}

	updated, err := h.userRepo.UpdateImage(r.Context(), user.ID, nil)
	if err != nil {
		log.Error().Err(err).Msg("remove avatar: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Unable to remove avatar"})
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}

	if err := h.store.UpdateUser(r.Context(), r, updated, true); err != nil {
		log.Error().Err(err).Msg("remove avatar: session write-through failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Avatar removed successfully",
		"user":    updated,
	})
}
