package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestAsideFetchesOnMissAndCaches(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Username = "testuser"
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "testuser", first.Username)
	assert.Equal(t, 1, fetches)

	// second read is served from the cache
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "testuser", second.Username)
	assert.Equal(t, 1, fetches)
}

func TestAsideExpiry(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var u cachedUser
	fetch := func() error {
		fetches++
		u.ID = 1
		return nil
	}

	require.NoError(t, Aside(ctx, UserKey(1), &u, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, Aside(ctx, UserKey(1), &u, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	withMiniredis(t)

	sentinel := errors.New("not found")
	var u cachedUser
	err := Aside(context.Background(), UserKey(2), &u, UserTTL, func() error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestAsideWithoutClientIsPassThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var u cachedUser
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), UserKey(1), &u, UserTTL, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches, "no client means every read hits the fetcher")
}

func TestInvalidateUser(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	var u cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &u, UserTTL, func() error {
		u.ID = 1
		return nil
	}))
	require.True(t, mr.Exists(UserKey(1)))

	InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists(UserKey(1)))
}
