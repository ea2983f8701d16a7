package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/auth"
	"github.com/sakif/campus-connect/internal/feed"
	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/repository"
)

// ProfileHandler shows and edits the logged-in user's profile.
type ProfileHandler struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(repo *repository.Repository, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{repo: repo, logger: logger}
}

// HandleGet renders the profile with placeholders for empty sections.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	me, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.NoActiveSession())
		return
	}
	writeData(w, http.StatusOK, feed.BuildProfileView(me, h.repo.Posts()))
}

// HandleUpdate replaces the whole profile.
//
// HTTP: PUT /api/profile
// REQUEST BODY: a model.Profile. Entries missing a required field are
// dropped silently, matching the edit form.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var p model.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.repo.UpdateProfile(r.Context(), p)
	if user == nil {
		writeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, feed.BuildProfileView(user, h.repo.Posts()), err)
}
