// Package git runs the git queries release checks depend on.
package git

import "context"

// StatusEntry is one line of `git status --porcelain`.
type StatusEntry struct {
	Code string // two-letter XY status, e.g. " M", "??"
	Path string
}

// GitExecutor defines the git operations used by releasetrain.
// This abstraction allows for easy testing with mock implementations.
type GitExecutor interface {
	IsGitRepo(ctx context.Context) bool
	// Status returns uncommitted changes, untracked files included.
	Status(ctx context.Context) ([]StatusEntry, error)
}
