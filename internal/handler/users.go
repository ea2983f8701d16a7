package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/campus-connect/internal/auth"
	"github.com/sakif/campus-connect/internal/feed"
	"github.com/sakif/campus-connect/internal/repository"
)

// UserHandler serves search and the follow graph.
type UserHandler struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(repo *repository.Repository, logger *slog.Logger) *UserHandler {
	return &UserHandler{repo: repo, logger: logger}
}

type followResponse struct {
	UserID    string `json:"userId"`
	Following bool   `json:"following"`
	Changed   bool   `json:"changed"`
}

// HandleSearch finds other users by username or college.
//
// HTTP: GET /api/search?q=mit
//
// An empty q is not an error: the result carries status "needs_query" and
// a message for the UI to show.
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.UserFromContext(r.Context())
	res := feed.SearchUsers(r.URL.Query().Get("q"), me, h.repo.Users())
	writeData(w, http.StatusOK, res)
}

// HandleFollow follows the user in the path.
//
// HTTP: POST /api/users/{id}/follow
func (h *UserHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	changed, err := h.repo.FollowUser(r.Context(), id)
	h.writeFollow(w, id, true, changed, err)
}

// HandleUnfollow stops following the user in the path.
//
// HTTP: DELETE /api/users/{id}/follow
func (h *UserHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	changed, err := h.repo.UnfollowUser(r.Context(), id)
	h.writeFollow(w, id, false, changed, err)
}

func (h *UserHandler) writeFollow(w http.ResponseWriter, id string, following, changed bool, err error) {
	writeResult(w, http.StatusOK, followResponse{UserID: id, Following: following, Changed: changed}, err)
}
