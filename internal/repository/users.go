package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/model"
)

// RegisterUser creates an account and logs it in.
//
// The email must not belong to any existing user. Username, college and
// email are trimmed; the password is stored exactly as given.
func (r *Repository) RegisterUser(ctx context.Context, username, college, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	college = strings.TrimSpace(college)
	email = strings.TrimSpace(email)

	switch {
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case college == "":
		return nil, apperror.ValidationFailed("college", "college is required")
	case email == "":
		return nil, apperror.ValidationFailed("email", "email is required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return nil, apperror.DuplicateEmail(email)
		}
	}

	user := &model.User{
		ID:         xid.New().String(),
		Username:   username,
		College:    college,
		Email:      email,
		Password:   password,
		Profile:    model.EmptyProfile(),
		Following:  []string{},
		SavedPosts: []string{},
	}
	r.users = append(r.users, user)

	r.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("college", user.College),
	)

	err := errors.Join(r.saveUsers(ctx), r.session.SetCurrentUser(ctx, user))
	return user.Clone(), err
}

// LoginUser starts a session for the user whose email and password both
// match exactly. There is no lockout.
func (r *Repository) LoginUser(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email && u.Password == password {
			r.logger.Info("user logged in", slog.String("userID", u.ID))
			return u.Clone(), r.session.SetCurrentUser(ctx, u)
		}
	}

	r.logger.Debug("login rejected", slog.String("email", email))
	return nil, apperror.InvalidCredentials()
}

// LogoutUser ends the session. Logging out while logged out is a no-op.
func (r *Repository) LogoutUser(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.session.CurrentUser(); ok {
		r.logger.Info("user logged out", slog.String("userID", u.ID))
	}
	return r.session.ClearCurrentUser(ctx)
}

// ToggleSavePost adds postID to the current user's saved posts, or removes
// it if already saved. saved reports the new state.
func (r *Repository) ToggleSavePost(ctx context.Context, postID string) (saved bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return false, err
	}
	if r.findPost(postID) == nil {
		return false, apperror.PostNotFound(postID)
	}

	me.SavedPosts, saved = model.Toggle(me.SavedPosts, postID)

	r.logger.Debug("saved posts toggled",
		slog.String("userID", me.ID),
		slog.String("postID", postID),
		slog.Bool("saved", saved),
	)

	return saved, r.commitSelf(ctx, me)
}

// FollowUser adds userID to the current user's following list. Following
// someone already followed changes nothing and reports changed=false.
func (r *Repository) FollowUser(ctx context.Context, userID string) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return false, err
	}
	if userID == me.ID {
		return false, apperror.ValidationFailed("userId", "you cannot follow yourself")
	}
	if r.findUser(userID) == nil {
		return false, apperror.NotFound("user", userID)
	}
	if me.IsFollowing(userID) {
		return false, nil
	}

	me.Following = append(me.Following, userID)

	r.logger.Debug("user followed", slog.String("userID", me.ID), slog.String("target", userID))
	return true, r.commitSelf(ctx, me)
}

// UnfollowUser removes userID from the current user's following list.
// Unfollowing someone not followed reports changed=false.
func (r *Repository) UnfollowUser(ctx context.Context, userID string) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return false, err
	}
	if !me.IsFollowing(userID) {
		return false, nil
	}

	me.Following = model.Remove(me.Following, userID)

	r.logger.Debug("user unfollowed", slog.String("userID", me.ID), slog.String("target", userID))
	return true, r.commitSelf(ctx, me)
}

// UpdateProfile replaces the current user's whole profile with the
// normalized form of p. Incomplete section entries are dropped.
func (r *Repository) UpdateProfile(ctx context.Context, p model.Profile) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, err := r.sessionUser()
	if err != nil {
		return nil, err
	}

	me.Profile = model.NormalizeProfile(p)

	r.logger.Info("profile updated", slog.String("userID", me.ID))
	return me.Clone(), r.commitSelf(ctx, me)
}

// commitSelf persists the users collection after the session user changed
// and refreshes the session's cached copy.
func (r *Repository) commitSelf(ctx context.Context, me *model.User) error {
	return errors.Join(r.saveUsers(ctx), r.session.SetCurrentUser(ctx, me))
}
