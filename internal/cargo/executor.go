// Package cargo runs the cargo subcommands a release needs.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyUploaded indicates the registry rejected a publish because the
	// version exists.
	ErrAlreadyUploaded = errors.New("version already uploaded")

	// ErrNotFound indicates a search returned no matching package.
	ErrNotFound = errors.New("package not found in registry")
)

// PublishOptions configures `cargo publish`.
type PublishOptions struct {
	Package  string
	NoVerify bool
}

// SearchResult is the first hit of `cargo search`.
type SearchResult struct {
	Name    string
	Version string
}

// CargoExecutor defines the cargo operations used by releasetrain.
// This abstraction allows for easy testing with mock implementations.
type CargoExecutor interface {
	// Publish uploads one package to the registry.
	Publish(ctx context.Context, opts PublishOptions) error
	// Search returns the newest registry version of name.
	// Returns ErrNotFound when the registry has no package of that exact name.
	Search(ctx context.Context, name string) (SearchResult, error)
	// UpdateDryRun returns the output of `cargo update --workspace --dry-run`.
	UpdateDryRun(ctx context.Context) (string, error)
	// Check runs `cargo check -p <pkg>` with extra environment entries.
	Check(ctx context.Context, pkg string, env []string) error
	// Test runs the workspace library tests.
	Test(ctx context.Context) error
}

// CommandError is returned when cargo exits non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("cargo %s failed", strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if tail := lastLines(e.Stderr, 5); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// lastLines returns the final n non-empty lines of s joined by " | ".
func lastLines(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
