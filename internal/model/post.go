package model

import (
	"slices"
	"time"
)

// Post is a piece of content shared by a user.
//
// UserID, Username and College are a snapshot of the author taken when the
// post is created. Later edits to the author are not copied here.
//
// Likes and Dislikes hold user ids and are disjoint: a user id is never in
// both at once.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	College   string    `json:"college"`
	Content   string    `json:"content"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is an entry in a post's append-only comment thread.
type Comment struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID string) bool { return slices.Contains(p.Likes, userID) }

// DislikedBy reports whether userID has disliked the post.
func (p *Post) DislikedBy(userID string) bool { return slices.Contains(p.Dislikes, userID) }

// Clone returns a deep copy of the post.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Likes = cloneIDs(p.Likes)
	c.Dislikes = cloneIDs(p.Dislikes)
	c.Comments = append([]Comment{}, p.Comments...)
	return &c
}
