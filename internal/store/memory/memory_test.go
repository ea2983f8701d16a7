package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Load(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "users", []byte(`[]`)))
	data, ok, err := s.Load(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(data))

	require.NoError(t, s.Clear(ctx, "users"))
	_, ok, err = s.Load(ctx, "users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CopiesBytes(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", in))
	in[0] = 'z'

	out, _, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out), "Save must not alias the caller's slice")

	out[1] = 'z'
	again, _, _ := s.Load(ctx, "k")
	assert.Equal(t, "abc", string(again), "Load must not expose internal storage")
}

func TestStore_Quota(t *testing.T) {
	ctx := context.Background()
	s := New(WithQuota(10))

	require.NoError(t, s.Save(ctx, "a", []byte("12345")))
	require.NoError(t, s.Save(ctx, "b", []byte("12345")))

	err := s.Save(ctx, "c", []byte("1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	_, ok, _ := s.Load(ctx, "c")
	assert.False(t, ok, "a rejected save must not store anything")

	// Replacing an existing key counts only the new value.
	require.NoError(t, s.Save(ctx, "a", []byte("123")))
	assert.Equal(t, 8, s.Size())
}

func TestStore_SetQuotaAfterWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Save(ctx, "a", []byte("hello")))

	s.SetQuota(1)
	err := s.Save(ctx, "a", []byte("hello again"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	data, _, _ := s.Load(ctx, "a")
	assert.Equal(t, "hello", string(data), "previous document stays in place")
}

func TestWithSeed(t *testing.T) {
	s := New(WithSeed(map[string][]byte{"posts": []byte(`[{"id":"1"}]`)}))

	data, ok, err := s.Load(context.Background(), "posts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := New(WithSeed(map[string][]byte{"users": []byte(`[]`)}))
	require.NoError(t, s.Save(ctx, "posts", []byte(`[]`)))
	require.NoError(t, s.Save(ctx, "currentUser", []byte(`{}`)))
	require.NoError(t, s.Clear(ctx, "currentUser"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "users"}, keys)
}
