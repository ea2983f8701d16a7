package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-connect/internal/store"
)

// newTestStore connects to MONGO_URI, or skips. Each test gets its own
// collection, dropped afterwards.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	s, err := Open(context.Background(), Config{
		URI:        uri,
		Database:   "campus_test",
		Collection: "kv_" + xid.New().String(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Drop(context.Background())
		s.Close()
	})
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Load(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, store.KeyUsers, []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.Save(ctx, store.KeyUsers, []byte(`[]`)))

	data, ok, err := s.Load(ctx, store.KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(data), "save replaces the whole document")

	require.NoError(t, s.Clear(ctx, store.KeyUsers))
	_, ok, err = s.Load(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Clear(ctx, store.KeyPosts), "clearing a missing key is fine")
}

func TestOpen_BadURI(t *testing.T) {
	_, err := Open(context.Background(), Config{URI: "not-a-uri", Database: "x"})
	assert.Error(t, err)
}
