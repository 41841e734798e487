package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type versionSet struct {
	Name     string
	Versions []string
}

func TestInMemoryCacheManager_SetAndGet(t *testing.T) {
	cache := NewInMemoryCacheManager[string, versionSet]("index", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "imgui")
	require.False(t, ok)

	cache.Set(ctx, "imgui", versionSet{Name: "imgui", Versions: []string{"0.4.0"}}, 0)

	got, ok := cache.Get(ctx, "imgui")
	require.True(t, ok)
	require.Equal(t, []string{"0.4.0"}, got.Versions)
	require.Equal(t, 1, cache.Count())
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("short", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "k", 1, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, "a", 1, 0)
	cache.Set(ctx, "b", 2, 0)
	cache.Set(ctx, "c", 3, 0)

	cache.Delete(ctx, "a", "b")
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "c")
	require.True(t, ok)

	cache.Flush(ctx)
	require.Equal(t, 0, cache.Count())
}

type packageName string

func TestInMemoryCacheManager_NamedKeyType(t *testing.T) {
	cache := NewInMemoryCacheManager[packageName, string]("named", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()

	cache.Set(ctx, packageName("x"), "v", 0)
	got, ok := cache.Get(ctx, "x")
	require.True(t, ok)
	require.Equal(t, "v", got)
}
