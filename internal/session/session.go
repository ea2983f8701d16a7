// Package session tracks which user is currently logged in.
//
// There is at most one current user per process. The record is mirrored to
// the store under store.KeyCurrentUser so a restart resumes the session.
// Callers must call SetCurrentUser again after changing the user, otherwise
// the cached copy goes stale.
package session

import (
	"context"
	"log/slog"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/store"
)

// Service holds the zero-or-one current user.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	current *model.User
}

// New loads the persisted session marker, if any.
func New(ctx context.Context, st store.Store, logger *slog.Logger) (*Service, error) {
	s := &Service{store: st, logger: logger}

	var u model.User
	ok, err := store.LoadJSON(ctx, st, store.KeyCurrentUser, &u)
	if err != nil {
		return nil, err
	}
	if ok && u.ID != "" {
		s.current = &u
	}
	return s, nil
}

// CurrentUser returns a copy of the current user.
func (s *Service) CurrentUser() (*model.User, bool) {
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// LoggedIn reports whether a user is set.
func (s *Service) LoggedIn() bool {
	return s.current != nil
}

// SetCurrentUser overwrites the current user unconditionally.
//
// The in-memory pointer is updated before the write, so a failed write
// still leaves the session usable; the returned error is a persistence
// warning in that case.
func (s *Service) SetCurrentUser(ctx context.Context, u *model.User) error {
	s.current = u.Clone()

	if err := store.SaveJSON(ctx, s.store, store.KeyCurrentUser, s.current); err != nil {
		s.logger.Warn("session not persisted",
			slog.String("userID", u.ID),
			slog.String("error", err.Error()),
		)
		return apperror.PersistenceFailure(store.KeyCurrentUser, err)
	}
	return nil
}

// ClearCurrentUser logs the user out and removes the session marker.
func (s *Service) ClearCurrentUser(ctx context.Context) error {
	s.current = nil

	if err := s.store.Clear(ctx, store.KeyCurrentUser); err != nil {
		s.logger.Warn("session marker not cleared", slog.String("error", err.Error()))
		return apperror.PersistenceFailure(store.KeyCurrentUser, err)
	}
	return nil
}
