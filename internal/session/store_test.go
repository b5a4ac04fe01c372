package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, time.Hour), mr
}

func TestStore_CreateAndResolve(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	key, err := s.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	uid, ok, err := s.UserID(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(42), uid)
}

func TestStore_UnknownKey(t *testing.T) {
	s, _ := newTestStore(t)

	uid, ok, err := s.UserID(context.Background(), "no-such-key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint(0), uid)
}

func TestStore_ExpiredKey(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	key, err := s.Create(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, ok, err := s.UserID(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Destroy(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	key, err := s.Create(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, s.AddFlash(ctx, key, "hello"))

	require.NoError(t, s.Destroy(ctx, key))

	_, ok, err := s.UserID(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	flashes, err := s.PopFlashes(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestStore_FlashesClearedOnRead(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	key, err := s.Create(ctx, AnonymousUserID)
	require.NoError(t, err)

	require.NoError(t, s.AddFlash(ctx, key, "Access unauthorized."))
	require.NoError(t, s.AddFlash(ctx, key, "Invalid credentials"))

	flashes, err := s.PopFlashes(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"Access unauthorized.", "Invalid credentials"}, flashes)

	flashes, err = s.PopFlashes(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, flashes)
}

func TestStore_NilClient(t *testing.T) {
	s := NewStore(nil, time.Hour)

	_, err := s.Create(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
