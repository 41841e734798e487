package registry

import (
	"context"
	"errors"

	"github.com/zjrosen/releasetrain/internal/cargo"
)

// SearchSource asks `cargo search` for the newest version of a package.
// It only ever sees the latest release, so older versions read as unpublished.
type SearchSource struct {
	cargo cargo.CargoExecutor
}

// Compile-time check that SearchSource implements Source.
var _ Source = (*SearchSource)(nil)

// NewSearchSource creates a Source backed by cargo search.
func NewSearchSource(c cargo.CargoExecutor) *SearchSource {
	return &SearchSource{cargo: c}
}

// Releases implements Source.
func (s *SearchSource) Releases(ctx context.Context, name string) ([]Release, error) {
	res, err := s.cargo.Search(ctx, name)
	if errors.Is(err, cargo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []Release{{Version: res.Version}}, nil
}
