package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-connect/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}

	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, k := range []string{store.KeyUsers, store.KeyPosts, store.KeyCurrentUser} {
			s.Clear(context.Background(), k)
		}
		s.Close()
	})
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Clear(ctx, store.KeyPosts))
	_, ok, err := s.Load(ctx, store.KeyPosts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, store.KeyPosts, []byte(`[{"id":"p1"}]`)))
	require.NoError(t, s.Save(ctx, store.KeyPosts, []byte(`[{"id":"p2"}]`)))

	data, ok, err := s.Load(ctx, store.KeyPosts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"p2"}]`, string(data))

	require.NoError(t, s.Clear(ctx, store.KeyPosts))
	_, ok, err = s.Load(ctx, store.KeyPosts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_Unreachable(t *testing.T) {
	_, err := Open(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
