// Package model defines the data structures used throughout the application.
package model

import "slices"

// User represents a registered account.
//
// The JSON field names are the persisted layout of the "users" and
// "currentUser" documents, so renaming a tag is a storage format change.
//
// WHY Password string (plain text)?
// Login is an exact comparison of email and password against the stored
// record. No hashing scheme is part of the stored format.
type User struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	College    string   `json:"college"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Profile    Profile  `json:"profile"`
	Following  []string `json:"following"`  // user ids, insertion order, no duplicates
	SavedPosts []string `json:"savedPosts"` // post ids, insertion order, no duplicates
}

// IsFollowing reports whether the user follows userID.
func (u *User) IsFollowing(userID string) bool {
	return slices.Contains(u.Following, userID)
}

// HasSaved reports whether postID is in the user's saved posts.
func (u *User) HasSaved(postID string) bool {
	return slices.Contains(u.SavedPosts, postID)
}

// Clone returns a deep copy. Slices are never shared between the copy and
// the original, so callers can't reach into repository state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Profile = u.Profile.Clone()
	c.Following = cloneIDs(u.Following)
	c.SavedPosts = cloneIDs(u.SavedPosts)
	return &c
}

// Toggle adds id to set if absent or removes it if present, returning the
// new set and whether id is now a member.
func Toggle(set []string, id string) ([]string, bool) {
	if slices.Contains(set, id) {
		return Remove(set, id), false
	}
	return append(set, id), true
}

// Remove returns set without id. The result is always non-nil.
func Remove(set []string, id string) []string {
	out := make([]string, 0, len(set))
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
