package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/auth"
	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/repository"
)

// AuthHandler covers account creation and the session lifecycle.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, log it in, issue the cookie
//   - HandleLogin    → check credentials, log in, issue the cookie
//   - HandleLogout   → end the session, clear the cookie
//   - HandleMe       → return the logged-in user
//
// tokens may be nil, in which case no cookie is issued and the repository
// session alone identifies the user.
type AuthHandler struct {
	repo      *repository.Repository
	tokens    *auth.TokenService
	validator *requestValidator
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(repo *repository.Repository, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		repo:      repo,
		tokens:    tokens,
		validator: newRequestValidator(),
		logger:    logger,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	College  string `json:"college" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// userView is a user as sent to clients. The password never leaves the
// server.
type userView struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	College    string        `json:"college"`
	Email      string        `json:"email"`
	Profile    model.Profile `json:"profile"`
	Following  []string      `json:"following"`
	SavedPosts []string      `json:"savedPosts"`
}

func newUserView(u *model.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		College:    u.College,
		Email:      u.Email,
		Profile:    u.Profile,
		Following:  u.Following,
		SavedPosts: u.SavedPosts,
	}
}

// HandleRegister creates an account and logs it in.
//
// HTTP: POST /api/register
// REQUEST BODY: {"username":"ana","college":"MIT","email":"ana@mit.edu","password":"..."}
// RESPONSE: 201 with the new user; 409 duplicate_email if the email is taken
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.validator.bind(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.repo.RegisterUser(r.Context(), req.Username, req.College, req.Email, req.Password)
	if user == nil {
		writeError(w, err)
		return
	}

	if !h.issueCookie(w, user.ID) {
		return
	}
	writeResult(w, http.StatusCreated, newUserView(user), err)
}

// HandleLogin starts a session for matching credentials.
//
// HTTP: POST /api/login
// REQUEST BODY: {"email":"ana@mit.edu","password":"..."}
// RESPONSE: 200 with the user; 401 invalid_credentials otherwise
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	// A missing field is just a failed login, same as a wrong password.
	if err := h.validator.validate(req); err != nil {
		writeError(w, apperror.InvalidCredentials())
		return
	}

	user, err := h.repo.LoginUser(r.Context(), req.Email, req.Password)
	if user == nil {
		writeError(w, err)
		return
	}

	if !h.issueCookie(w, user.ID) {
		return
	}
	writeResult(w, http.StatusOK, newUserView(user), err)
}

// HandleLogout ends the session and deletes the token cookie.
//
// HTTP: POST /api/logout
//
// POST rather than GET: logout changes state, and browsers prefetch GETs.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	err := h.repo.LogoutUser(r.Context())
	auth.ClearSessionCookie(w)
	writeResult(w, http.StatusOK, map[string]string{"message": "logged out"}, err)
}

// HandleMe returns the logged-in user.
//
// HTTP: GET /api/me
// Auth: RequireSession
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.NoActiveSession())
		return
	}
	writeData(w, http.StatusOK, newUserView(me))
}

// issueCookie sets the token cookie. It reports false after writing a 500
// if signing failed.
func (h *AuthHandler) issueCookie(w http.ResponseWriter, userID string) bool {
	if err := auth.SetSessionCookie(w, h.tokens, userID); err != nil {
		h.logger.Error("issuing session token failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return false
	}
	return true
}
