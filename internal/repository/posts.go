package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/model"
)

// CreatePost publishes content as the current user.
//
// The post carries a snapshot of the author's id, username and college and
// goes to the front of the collection.
func (r *Repository) CreatePost(ctx context.Context, content string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}

	post := &model.Post{
		ID:        xid.New().String(),
		UserID:    me.ID,
		Username:  me.Username,
		College:   me.College,
		Content:   content,
		Likes:     []string{},
		Dislikes:  []string{},
		Comments:  []model.Comment{},
		CreatedAt: r.now(),
	}
	r.posts = append([]*model.Post{post}, r.posts...)

	r.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", me.ID),
	)

	return post.Clone(), r.savePosts(ctx)
}

// LikePost toggles the current user's like. Liking removes any dislike.
func (r *Repository) LikePost(ctx context.Context, postID string) (*model.Post, error) {
	return r.react(ctx, postID, true)
}

// DislikePost toggles the current user's dislike. Disliking removes any like.
func (r *Repository) DislikePost(ctx context.Context, postID string) (*model.Post, error) {
	return r.react(ctx, postID, false)
}

func (r *Repository) react(ctx context.Context, postID string, like bool) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	post := r.findPost(postID)
	if post == nil {
		return nil, apperror.PostNotFound(postID)
	}

	var added bool
	if like {
		post.Likes, added = model.Toggle(post.Likes, me.ID)
		if added {
			post.Dislikes = model.Remove(post.Dislikes, me.ID)
		}
	} else {
		post.Dislikes, added = model.Toggle(post.Dislikes, me.ID)
		if added {
			post.Likes = model.Remove(post.Likes, me.ID)
		}
	}

	r.logger.Debug("reaction toggled",
		slog.String("postID", post.ID),
		slog.String("userID", me.ID),
		slog.Bool("like", like),
		slog.Bool("added", added),
	)

	return post.Clone(), r.savePosts(ctx)
}

// CommentOnPost appends a comment by the current user. There is no length
// limit, but the text must not be blank.
func (r *Repository) CommentOnPost(ctx context.Context, postID, text string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return nil, err
	}
	post := r.findPost(postID)
	if post == nil {
		return nil, apperror.PostNotFound(postID)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("comment", "comment text is required")
	}

	post.Comments = append(post.Comments, model.Comment{
		UserID:    me.ID,
		Username:  me.Username,
		Comment:   text,
		CreatedAt: r.now(),
	})

	r.logger.Debug("comment added",
		slog.String("postID", post.ID),
		slog.String("userID", me.ID),
		slog.Int("comments", len(post.Comments)),
	)

	return post.Clone(), r.savePosts(ctx)
}
