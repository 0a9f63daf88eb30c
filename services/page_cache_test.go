package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type view struct {
	Names []string `json:"names"`
}

func TestPageCacheFetchStoresAndServes(t *testing.T) {
	s := miniredis.RunT(t)
	cache, err := NewPageCache("redis://"+s.Addr(), time.Minute)
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	loads := 0
	load := func() (any, error) {
		loads++
		return view{Names: []string{"Sentinel"}}, nil
	}

	var first, second view
	require.NoError(t, cache.Fetch(ctx, "products", &first, load))
	require.NoError(t, cache.Fetch(ctx, "products", &second, load))
	assert.Equal(t, 1, loads)
	assert.Equal(t, first, second)
	assert.True(t, s.Exists("portal:pages:0:products"))

	ttl := s.TTL("portal:pages:0:products")
	assert.Equal(t, time.Minute, ttl)
}

func TestPageCacheInvalidate(t *testing.T) {
	s := miniredis.RunT(t)
	cache, err := NewPageCache("redis://"+s.Addr(), time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	names := []string{"Before"}
	load := func() (any, error) { return view{Names: names}, nil }

	var v view
	require.NoError(t, cache.Fetch(ctx, "products", &v, load))
	names = []string{"After"}
	cache.Invalidate(ctx)

	require.NoError(t, cache.Fetch(ctx, "products", &v, load))
	assert.Equal(t, []string{"After"}, v.Names)
	assert.True(t, s.Exists("portal:pages:1:products"))
}

func TestPageCacheFallsBackWhenRedisIsDown(t *testing.T) {
	s := miniredis.RunT(t)
	cache, err := NewPageCache("redis://"+s.Addr(), time.Minute)
	require.NoError(t, err)
	s.Close()

	var v view
	err = cache.Fetch(context.Background(), "products", &v, func() (any, error) {
		return view{Names: []string{"Live"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Live"}, v.Names)
	cache.Invalidate(context.Background())
}

func TestPageCachePassThrough(t *testing.T) {
	cache, err := NewPageCache("", 0)
	require.NoError(t, err)
	assert.NoError(t, cache.Ping(context.Background()))

	loads := 0
	var v view
	for i := 0; i < 2; i++ {
		require.NoError(t, cache.Fetch(context.Background(), "products", &v, func() (any, error) {
			loads++
			return view{Names: []string{"Live"}}, nil
		}))
	}
	assert.Equal(t, 2, loads)

	boom := errors.New("boom")
	err = cache.Fetch(context.Background(), "products", &v, func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestNewPageCacheRejectsBadURL(t *testing.T) {
	_, err := NewPageCache("not-a-redis-url", time.Minute)
	assert.Error(t, err)
}
