// Package feed derives read-only views from the repository's collections:
// the relevant-posts feed, user search, saved posts and profile display.
//
// Nothing here mutates its inputs or touches the store. Every function takes
// snapshots (as returned by repository.Users / Posts / CurrentUser) so it can
// run outside the repository lock.
package feed

import (
	"strings"

	"github.com/sakif/campus-connect/internal/model"
)

// RelevantPosts returns the posts current should see: posts from the same
// college, plus posts by anyone current follows. Input order (newest first)
// is kept. There is no pagination.
func RelevantPosts(current *model.User, posts []model.Post) []model.Post {
	out := []model.Post{}
	if current == nil {
		return out
	}
	for _, p := range posts {
		if p.College == current.College || current.IsFollowing(p.UserID) {
			out = append(out, p)
		}
	}
	return out
}

// SavedPosts resolves current's saved post ids, in the order they were
// saved. Ids whose post no longer exists are skipped.
func SavedPosts(current *model.User, posts []model.Post) []model.Post {
	out := []model.Post{}
	if current == nil {
		return out
	}

	byID := make(map[string]model.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	for _, id := range current.SavedPosts {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PlaceholderComments is shown in place of an empty comment thread.
const PlaceholderComments = "No comments yet."

// PostView is a post annotated for display to one viewer.
type PostView struct {
	model.Post
	LikeCount       int    `json:"likeCount"`
	DislikeCount    int    `json:"dislikeCount"`
	CommentCount    int    `json:"commentCount"`
	Liked           bool   `json:"liked"`
	Disliked        bool   `json:"disliked"`
	Saved           bool   `json:"saved"`
	CommentsMessage string `json:"commentsMessage,omitempty"`
}

// Annotate adds counts and the viewer's own reaction flags to p. A nil
// viewer gets counts only. A post without comments carries
// PlaceholderComments.
func Annotate(p model.Post, viewer *model.User) PostView {
	v := PostView{
		Post:         p,
		LikeCount:    len(p.Likes),
		DislikeCount: len(p.Dislikes),
		CommentCount: len(p.Comments),
	}
	if v.CommentCount == 0 {
		v.CommentsMessage = PlaceholderComments
	}
	if viewer != nil {
		v.Liked = p.LikedBy(viewer.ID)
		v.Disliked = p.DislikedBy(viewer.ID)
		v.Saved = viewer.HasSaved(p.ID)
	}
	return v
}

// AnnotateAll applies Annotate to every post.
func AnnotateAll(posts []model.Post, viewer *model.User) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, Annotate(p, viewer))
	}
	return out
}

// SearchStatus tells the caller which of the three search outcomes happened.
type SearchStatus string

const (
	SearchNeedsQuery SearchStatus = "needs_query"
	SearchNoMatches  SearchStatus = "no_matches"
	SearchFound      SearchStatus = "found"
)

const (
	msgNeedsQuery = "Please enter a search term"
	msgNoMatches  = "No users found"
)

// UserMatch is a search hit. It carries no email or password.
type UserMatch struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	College   string `json:"college"`
	Following bool   `json:"following"`
}

// SearchResult is the outcome of SearchUsers. Message is set for the two
// outcomes that have nothing to list.
type SearchResult struct {
	Status  SearchStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Users   []UserMatch  `json:"users"`
}

// SearchUsers matches query, case-insensitively, as a substring of each
// user's username or college. The current user is never listed.
//
// An empty query is not "match everything": it yields SearchNeedsQuery.
func SearchUsers(query string, current *model.User, users []model.User) SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return SearchResult{Status: SearchNeedsQuery, Message: msgNeedsQuery, Users: []UserMatch{}}
	}

	matches := []UserMatch{}
	for _, u := range users {
		if current != nil && u.ID == current.ID {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Username), q) &&
			!strings.Contains(strings.ToLower(u.College), q) {
			continue
		}
		matches = append(matches, UserMatch{
			ID:        u.ID,
			Username:  u.Username,
			College:   u.College,
			Following: current != nil && current.IsFollowing(u.ID),
		})
	}

	if len(matches) == 0 {
		return SearchResult{Status: SearchNoMatches, Message: msgNoMatches, Users: matches}
	}
	return SearchResult{Status: SearchFound, Users: matches}
}
