package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/campus-connect/internal/auth"
	"github.com/sakif/campus-connect/internal/feed"
	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/repository"
)

// PostHandler serves the feed and every per-post action. All routes sit
// behind RequireSession.
type PostHandler struct {
	repo      *repository.Repository
	validator *requestValidator
	logger    *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(repo *repository.Repository, logger *slog.Logger) *PostHandler {
	return &PostHandler{repo: repo, validator: newRequestValidator(), logger: logger}
}

type createPostRequest struct {
	Content string `json:"content" validate:"required"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

type saveResponse struct {
	PostID string `json:"postId"`
	Saved  bool   `json:"saved"`
}

// HandleFeed lists the posts relevant to the logged-in user, newest first.
//
// HTTP: GET /api/feed
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.UserFromContext(r.Context())
	posts := feed.RelevantPosts(me, h.repo.Posts())
	writeData(w, http.StatusOK, feed.AnnotateAll(posts, me))
}

// HandleCreate publishes a post.
//
// HTTP: POST /api/posts
// REQUEST BODY: {"content": "hello campus"}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := h.validator.bind(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.repo.CreatePost(r.Context(), req.Content)
	h.writePost(w, r, http.StatusCreated, post, err)
}

// HandleLike toggles the user's like.
//
// HTTP: POST /api/posts/{id}/like
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	post, err := h.repo.LikePost(r.Context(), chi.URLParam(r, "id"))
	h.writePost(w, r, http.StatusOK, post, err)
}

// HandleDislike toggles the user's dislike.
//
// HTTP: POST /api/posts/{id}/dislike
func (h *PostHandler) HandleDislike(w http.ResponseWriter, r *http.Request) {
	post, err := h.repo.DislikePost(r.Context(), chi.URLParam(r, "id"))
	h.writePost(w, r, http.StatusOK, post, err)
}

// HandleComment appends a comment.
//
// HTTP: POST /api/posts/{id}/comments
// REQUEST BODY: {"comment": "nice!"}
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := h.validator.bind(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.repo.CommentOnPost(r.Context(), chi.URLParam(r, "id"), req.Comment)
	h.writePost(w, r, http.StatusCreated, post, err)
}

// HandleToggleSave adds the post to, or removes it from, the saved list.
//
// HTTP: POST /api/posts/{id}/save
func (h *PostHandler) HandleToggleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	saved, err := h.repo.ToggleSavePost(r.Context(), id)
	writeResult(w, http.StatusOK, saveResponse{PostID: id, Saved: saved}, err)
}

// writePost annotates post for the user as they are after the change.
func (h *PostHandler) writePost(w http.ResponseWriter, r *http.Request, status int, post *model.Post, err error) {
	if post == nil {
		writeError(w, err)
		return
	}
	me, _ := h.repo.CurrentUser()
	writeResult(w, status, feed.Annotate(*post, me), err)
}
