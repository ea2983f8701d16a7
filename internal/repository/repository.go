// Package repository is the domain layer: it owns the user and post
// collections plus the active session, and writes every change through to
// the persistent store before returning.
//
// THE WRITE-THROUGH CONTRACT:
// Each mutating operation saves every collection it touched, synchronously,
// as a full document. Results follow one rule:
//
//   - (zero, err) with !apperror.IsWarning(err): rejected, nothing changed
//   - (result, err) with apperror.IsWarning(err): applied in memory, but the
//     store refused the write; the change is lost on reload
//   - (result, nil): applied and persisted
//
// All operations take one mutex, so concurrent callers (the HTTP adapter)
// see the same single-writer behaviour as a single UI thread.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/session"
	"github.com/sakif/campus-connect/internal/store"
)

// Repository holds the in-memory collections. Construct it with New.
type Repository struct {
	mu      sync.Mutex
	store   store.Store
	session *session.Service
	logger  *slog.Logger
	now     func() time.Time

	users []*model.User // registration order
	posts []*model.Post // newest first
}

// New loads the users, posts and session documents from st.
//
// Missing documents mean empty collections. A session pointing at a user
// that no longer exists is cleared.
func New(ctx context.Context, st store.Store, logger *slog.Logger) (*Repository, error) {
	r := &Repository{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		users:  []*model.User{},
		posts:  []*model.Post{},
	}

	if _, err := store.LoadJSON(ctx, st, store.KeyUsers, &r.users); err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	if _, err := store.LoadJSON(ctx, st, store.KeyPosts, &r.posts); err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	r.users = compactUsers(r.users)
	r.posts = compactPosts(r.posts)

	sess, err := session.New(ctx, st, logger)
	if err != nil {
		return nil, fmt.Errorf("repository: %w", err)
	}
	r.session = sess

	if u, ok := sess.CurrentUser(); ok && r.findUser(u.ID) == nil {
		logger.Warn("dropping session for unknown user", slog.String("userID", u.ID))
		if err := sess.ClearCurrentUser(ctx); err != nil {
			logger.Warn("stale session marker left in store", slog.String("error", err.Error()))
		}
	}

	logger.Debug("repository loaded",
		slog.Int("users", len(r.users)),
		slog.Int("posts", len(r.posts)),
		slog.Bool("loggedIn", sess.LoggedIn()),
	)

	return r, nil
}

// CurrentUser returns the live record of the logged-in user.
func (r *Repository) CurrentUser() (*model.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.sessionUser()
	if err != nil {
		return nil, false
	}
	return u.Clone(), true
}

// Users returns a copy of every user in registration order.
func (r *Repository) Users() []model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u.Clone())
	}
	return out
}

// Posts returns a copy of every post, newest first.
func (r *Repository) Posts() []model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p.Clone())
	}
	return out
}

// Counts reports the collection sizes without copying them.
func (r *Repository) Counts() (users, posts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), len(r.posts)
}

// User looks up a user by id.
func (r *Repository) User(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findUser(id)
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	return u.Clone(), nil
}

// Post looks up a post by id.
func (r *Repository) Post(id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPost(id)
	if p == nil {
		return nil, apperror.PostNotFound(id)
	}
	return p.Clone(), nil
}

// sessionUser resolves the session to the live record in r.users.
// Callers must hold r.mu.
func (r *Repository) sessionUser() (*model.User, error) {
	cur, ok := r.session.CurrentUser()
	if !ok {
		return nil, apperror.NoActiveSession()
	}
	u := r.findUser(cur.ID)
	if u == nil {
		return nil, apperror.NoActiveSession()
	}
	return u, nil
}

func (r *Repository) findUser(id string) *model.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *Repository) findPost(id string) *model.Post {
	for _, p := range r.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Repository) saveUsers(ctx context.Context) error {
	return r.save(ctx, store.KeyUsers, r.users)
}

func (r *Repository) savePosts(ctx context.Context) error {
	return r.save(ctx, store.KeyPosts, r.posts)
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	if err := store.SaveJSON(ctx, r.store, key, v); err != nil {
		r.logger.Warn("write-through failed; keeping in-memory state",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return apperror.PersistenceFailure(key, err)
	}
	return nil
}
