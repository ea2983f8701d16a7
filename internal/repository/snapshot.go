package repository

import (
	"fmt"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/model"
)

// PrepareSnapshot normalizes externally supplied collections the way New
// does and rejects any that break the model rules:
//
//   - user ids, post ids and emails are non-empty and unique
//   - following, savedPosts, likes and dislikes hold no duplicate ids
//   - no user both likes and dislikes the same post
//
// The slices are modified in place and returned ready to save.
func PrepareSnapshot(users []*model.User, posts []*model.Post) ([]*model.User, []*model.Post, error) {
	users = compactUsers(users)
	posts = compactPosts(posts)

	ids := make(map[string]bool, len(users))
	emails := make(map[string]bool, len(users))
	for i, u := range users {
		switch {
		case u.ID == "":
			return nil, nil, apperror.ValidationFailed("id", fmt.Sprintf("user %d has no id", i))
		case ids[u.ID]:
			return nil, nil, apperror.ValidationFailed("id", fmt.Sprintf("duplicate user id %q", u.ID))
		case u.Email == "":
			return nil, nil, apperror.ValidationFailed("email", fmt.Sprintf("user %q has no email", u.ID))
		case emails[u.Email]:
			return nil, nil, apperror.ValidationFailed("email", fmt.Sprintf("duplicate email %q", u.Email))
		}
		ids[u.ID] = true
		emails[u.Email] = true

		if id, ok := firstDuplicate(u.Following); ok {
			return nil, nil, apperror.ValidationFailed("following", fmt.Sprintf("user %q follows %q twice", u.ID, id))
		}
		if id, ok := firstDuplicate(u.SavedPosts); ok {
			return nil, nil, apperror.ValidationFailed("savedPosts", fmt.Sprintf("user %q saved %q twice", u.ID, id))
		}
	}

	postIDs := make(map[string]bool, len(posts))
	for i, p := range posts {
		if p.ID == "" {
			return nil, nil, apperror.ValidationFailed("id", fmt.Sprintf("post %d has no id", i))
		}
		if postIDs[p.ID] {
			return nil, nil, apperror.ValidationFailed("id", fmt.Sprintf("duplicate post id %q", p.ID))
		}
		postIDs[p.ID] = true

		if id, ok := firstDuplicate(p.Likes); ok {
			return nil, nil, apperror.ValidationFailed("likes", fmt.Sprintf("post %q liked twice by %q", p.ID, id))
		}
		if id, ok := firstDuplicate(p.Dislikes); ok {
			return nil, nil, apperror.ValidationFailed("dislikes", fmt.Sprintf("post %q disliked twice by %q", p.ID, id))
		}
		for _, id := range p.Likes {
			if p.DislikedBy(id) {
				return nil, nil, apperror.ValidationFailed("likes", fmt.Sprintf("post %q is both liked and disliked by %q", p.ID, id))
			}
		}
	}

	return users, posts, nil
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id, true
		}
		seen[id] = true
	}
	return "", false
}

// compactUsers drops null entries and fills in slices that older documents
// may omit, so the rest of the package can assume non-nil fields.
func compactUsers(in []*model.User) []*model.User {
	out := make([]*model.User, 0, len(in))
	for _, u := range in {
		if u == nil {
			continue
		}
		if u.Following == nil {
			u.Following = []string{}
		}
		if u.SavedPosts == nil {
			u.SavedPosts = []string{}
		}
		u.Profile = fillProfile(u.Profile)
		out = append(out, u)
	}
	return out
}

func compactPosts(in []*model.Post) []*model.Post {
	out := make([]*model.Post, 0, len(in))
	for _, p := range in {
		if p == nil {
			continue
		}
		if p.Likes == nil {
			p.Likes = []string{}
		}
		if p.Dislikes == nil {
			p.Dislikes = []string{}
		}
		if p.Comments == nil {
			p.Comments = []model.Comment{}
		}
		out = append(out, p)
	}
	return out
}

func fillProfile(p model.Profile) model.Profile {
	if p.Experience == nil {
		p.Experience = []model.Experience{}
	}
	if p.Education == nil {
		p.Education = []model.Education{}
	}
	if p.Projects == nil {
		p.Projects = []model.Project{}
	}
	if p.Certifications == nil {
		p.Certifications = []model.Certification{}
	}
	if p.Social == nil {
		p.Social = []model.SocialLink{}
	}
	return p
}
