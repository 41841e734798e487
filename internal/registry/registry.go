// Package registry answers whether a package version is already on crates.io.
package registry

import (
	"context"
	"slices"
	"time"

	"github.com/zjrosen/releasetrain/internal/cachemanager"
	"github.com/zjrosen/releasetrain/internal/log"
)

// Release is one published version of a package.
type Release struct {
	Version string `json:"vers"`
	Yanked  bool   `json:"yanked"`
}

// Lookup reports registry state for packages.
type Lookup interface {
	// IsPublished reports whether version of name exists on the registry.
	// Yanked versions count as published; the registry refuses to accept them again.
	IsPublished(ctx context.Context, name, version string) (bool, error)
	// Invalidate forgets anything cached about name.
	Invalidate(ctx context.Context, name string)
}

// Source fetches the releases of one package. A package unknown to the
// registry has no releases and no error.
type Source interface {
	Releases(ctx context.Context, name string) ([]Release, error)
}

// CachedLookup answers Lookup queries from a Source through a TTL cache.
type CachedLookup struct {
	releases *cachemanager.ReadThroughCache[string, []Release]
}

// Compile-time check that CachedLookup implements Lookup.
var _ Lookup = (*CachedLookup)(nil)

// NewCachedLookup caches source results for ttl. A zero ttl disables caching.
func NewCachedLookup(source Source, ttl time.Duration) *CachedLookup {
	cache := cachemanager.NewInMemoryCacheManager[string, []Release]("registry", ttl, cachemanager.DefaultCleanupInterval)
	return &CachedLookup{
		releases: cachemanager.NewReadThroughCache[string, []Release](cache, source.Releases, ttl, ttl == 0),
	}
}

// IsPublished implements Lookup.
func (l *CachedLookup) IsPublished(ctx context.Context, name, version string) (bool, error) {
	releases, err := l.releases.Get(ctx, name)
	if err != nil {
		return false, err
	}
	i := slices.IndexFunc(releases, func(r Release) bool { return r.Version == version })
	if i < 0 {
		return false, nil
	}
	if releases[i].Yanked {
		log.Warn(log.CatRegistry, "Version is yanked, treating as published", "package", name, "version", version)
	}
	return true, nil
}

// Invalidate implements Lookup.
func (l *CachedLookup) Invalidate(ctx context.Context, name string) {
	l.releases.Invalidate(ctx, name)
}
