package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-connect/internal/apperror"
	"github.com/sakif/campus-connect/internal/config"
	"github.com/sakif/campus-connect/internal/repository"
	"github.com/sakif/campus-connect/internal/store"
	"github.com/sakif/campus-connect/internal/store/backend"
	"github.com/sakif/campus-connect/internal/store/memory"
)

// fixedStore hands every command the same memory store and records the
// config it was asked to open.
type fixedStore struct {
	st     *memory.Store
	cfg    *config.Config
	closed int
}

func (f *fixedStore) open(_ context.Context, cfg *config.Config) (store.Store, backend.CloseFunc, error) {
	f.cfg = cfg
	return f.st, func() error { f.closed++; return nil }, nil
}

func exec(t *testing.T, f *fixedStore, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(f.open, args, &out, io.Discard)
	return out.String(), err
}

// seed registers ana (logged in) and ben, with two posts by ana.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	r, err := repository.New(ctx, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = r.RegisterUser(ctx, "ben", "MIT", "ben@mit.edu", "pw")
	require.NoError(t, err)
	_, err = r.RegisterUser(ctx, "ana", "MIT", "ana@mit.edu", "pw")
	require.NoError(t, err)
	_, err = r.CreatePost(ctx, "first")
	require.NoError(t, err)
	p, err := r.CreatePost(ctx, "second")
	require.NoError(t, err)
	_, err = r.CommentOnPost(ctx, p.ID, "nice")
	require.NoError(t, err)
	return st
}

func TestStats(t *testing.T) {
	f := &fixedStore{st: seed(t)}
	out, err := exec(t, f, "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "users:    2")
	assert.Contains(t, out, "posts:    2")
	assert.Contains(t, out, "comments: 1")
	assert.Contains(t, out, "session:  ana (ana@mit.edu)")
	assert.Contains(t, out, "keys:     currentUser, posts, users")
	assert.Equal(t, 1, f.closed)
}

func TestFlagsOverrideConfig(t *testing.T) {
	f := &fixedStore{st: memory.New()}
	_, err := exec(t, f, "--backend", "Memory", "--db", "/tmp/other.db", "stats")
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, f.cfg.Backend)
	assert.Equal(t, "/tmp/other.db", f.cfg.DBPath)
}

func TestUsersList(t *testing.T) {
	out, err := exec(t, &fixedStore{st: seed(t)}, "users", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "USERNAME")
	ben := bytes.Index([]byte(out), []byte("ben@mit.edu"))
	ana := bytes.Index([]byte(out), []byte("ana@mit.edu"))
	require.True(t, ben > 0 && ana > 0, out)
	assert.Less(t, ben, ana, "registration order")

	out, err = exec(t, &fixedStore{st: memory.New()}, "users")
	require.NoError(t, err)
	assert.Equal(t, "No users found.\n", out)
}

func TestPostsList_Limit(t *testing.T) {
	out, err := exec(t, &fixedStore{st: seed(t)}, "posts", "list", "-n", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "second")
	assert.NotContains(t, out, "first", "only the newest post is shown")
}

func TestLogout(t *testing.T) {
	f := &fixedStore{st: seed(t)}
	out, err := exec(t, f, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Session cleared.\n", out)

	_, ok, err := f.st.Load(context.Background(), store.KeyCurrentUser)
	require.NoError(t, err)
	assert.False(t, ok)

	out, err = exec(t, f, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "session:  none")
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := &fixedStore{st: seed(t)}
	path := filepath.Join(t.TempDir(), "backup.json")

	_, err := exec(t, src, "export", path)
	require.NoError(t, err)

	dst := &fixedStore{st: memory.New()}
	out, err := exec(t, dst, "import", path)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 users and 2 posts.\n", out)

	out, err = exec(t, dst, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "comments: 1")
	assert.Contains(t, out, "session:  ana (ana@mit.edu)")
}

func TestExport_Stdout(t *testing.T) {
	out, err := exec(t, &fixedStore{st: memory.New()}, "export")
	require.NoError(t, err)

	assert.Contains(t, out, `"users": []`)
	assert.Contains(t, out, `"posts": []`)
	assert.NotContains(t, out, "currentUser")
}

func TestImport_RefusesWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	_, err := exec(t, &fixedStore{st: seed(t)}, "export", path)
	require.NoError(t, err)

	f := &fixedStore{st: seed(t)}
	_, err = exec(t, f, "import", path)
	assert.ErrorContains(t, err, "--force")
	assert.Equal(t, 1, f.closed, "the store is released on failure too")

	_, err = exec(t, f, "import", path, "--force")
	assert.NoError(t, err)
}

func TestImport_DropsDanglingSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [],
		"posts": [],
		"currentUser": {"id":"ghost","username":"ghost"}
	}`), 0o600))

	f := &fixedStore{st: memory.New()}
	_, err := exec(t, f, "import", path)
	require.NoError(t, err)

	_, ok, err := f.st.Load(context.Background(), store.KeyCurrentUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImport_RejectsInvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"duplicate email", `{"users": [
			{"id":"a","username":"a","email":"x@mit.edu"},
			{"id":"b","username":"b","email":"x@mit.edu"}]}`},
		{"duplicate user id", `{"users": [
			{"id":"a","email":"a@mit.edu"},
			{"id":"a","email":"b@mit.edu"}]}`},
		{"repeated follow", `{"users": [{"id":"a","email":"a@mit.edu","following":["b","b"]}]}`},
		{"duplicate post id", `{"posts": [{"id":"p"},{"id":"p"}]}`},
		{"liked and disliked", `{"posts": [{"id":"p","likes":["a"],"dislikes":["a"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "backup.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			f := &fixedStore{st: memory.New()}
			_, err := exec(t, f, "import", path)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrValidation)

			keys, err := f.st.Keys(context.Background())
			require.NoError(t, err)
			assert.Empty(t, keys, "nothing is written")
		})
	}
}

func TestImport_StoresEmptyListsNotNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [{"id":"a","username":"a","email":"a@mit.edu"}],
		"posts": [{"id":"p","userId":"a","content":"hi"}]
	}`), 0o600))

	f := &fixedStore{st: memory.New()}
	_, err := exec(t, f, "import", path)
	require.NoError(t, err)

	users, _, err := f.st.Load(context.Background(), store.KeyUsers)
	require.NoError(t, err)
	posts, _, err := f.st.Load(context.Background(), store.KeyPosts)
	require.NoError(t, err)

	assert.NotContains(t, string(users), "null")
	assert.Contains(t, string(users), `"following":[]`)
	assert.Contains(t, string(users), `"experience":[]`)
	assert.NotContains(t, string(posts), "null")
	assert.Contains(t, string(posts), `"likes":[]`)
}

func TestImport_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users": {"not":"a list"}}`), 0o600))

	_, err := exec(t, &fixedStore{st: memory.New()}, "import", path)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
