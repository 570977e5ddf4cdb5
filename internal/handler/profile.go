package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/nutrition-tracker/internal/auth"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// ProfileHandler serves the signed-in user's own profile.
type ProfileHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(authSvc *service.AuthService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{auth: authSvc, logger: logger}
}

// HandleGet returns the profile.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(r.Context(), auth.SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate replaces the mutable profile fields. Email and password
// cannot be changed here.
//
// HTTP: PUT /api/profile
// REQUEST BODY: {"name":"...","age":30,"weight":80,"height":180,"gender":"male","goal":"..."}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var fields model.ProfileFields
	if err := decodeJSON(w, r, &fields); err != nil {
		h.logger.Warn("invalid profile request body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if err := validateProfile(fields); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), auth.SessionFromContext(r.Context()), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes the profile and signs the user out. Logged meals
// are kept.
//
// HTTP: DELETE /api/profile
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.auth.DeleteProfile(r.Context(), auth.SessionFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "profile deleted"})
}
