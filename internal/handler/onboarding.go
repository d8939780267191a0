package handler

import (
	"net/http"

	"github.com/edgebook/guestbook-server-go/internal/middleware"
)

// OnboardingHandler serves the onboarding status the session middleware
// computed for this request. It lives outside /api/ so the gate actually
// runs for it; the frontend polls it after sign-in to decide whether to
// route the user to the profile form.
type OnboardingHandler struct{}

func NewOnboardingHandler() *OnboardingHandler {
	return &OnboardingHandler{}
}

// GET /onboarding/status
func (h *OnboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	needs := middleware.NeedsOnboarding(r.Context())

	resp := map[string]any{"needsOnboarding": needs}
	if needs {
		resp["onboardingUrl"] = middleware.Origin(r.Context()) + "/onboarding"
	}

	writeJSON(w, http.StatusOK, resp)
}
