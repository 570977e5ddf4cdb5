package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/nutrition-tracker/internal/auth"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// AuthHandler serves sign-up, login and logout.
//
// On success the session is carried back to the browser as a signed token
// in an HttpOnly cookie; auth.LoadSession turns it into a model.Session on
// later requests.
type AuthHandler struct {
	auth     *service.AuthService
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. tokenTTL should match the token
// service's lifetime so the cookie and the token expire together.
func NewAuthHandler(authSvc *service.AuthService, tokenTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, tokenTTL: tokenTTL, logger: logger}
}

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
	Gender   string  `json:"gender"`
	Goal     string  `json:"goal"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers a user and signs them in.
//
// HTTP: POST /api/signup → 201 with the profile, 409 if the email is taken.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validateSignup(req); err != nil {
		writeError(w, err)
		return
	}

	user, sess, err := h.auth.Register(r.Context(), req.Email, req.Password, model.ProfileFields{
		Name:   req.Name,
		Age:    req.Age,
		Weight: req.Weight,
		Height: req.Height,
		Gender: req.Gender,
		Goal:   req.Goal,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.startSession(w, sess) {
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin checks credentials and signs the user in.
//
// HTTP: POST /api/login → 200 with the profile, 401 on bad credentials.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, sess, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if !h.startSession(w, sess) {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout drops the session cookie.
//
// HTTP: POST /api/logout. POST rather than GET so a prefetch or a link on
// another site cannot sign the user out.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(auth.SessionFromContext(r.Context()))
	auth.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, sess model.Session) bool {
	token, err := h.auth.IssueToken(sess)
	if err != nil {
		h.logger.Error("failed to issue session token",
			slog.String("email", sess.Email()),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return false
	}
	auth.SetSessionCookie(w, token, h.tokenTTL)
	return true
}
