package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitUsage      = 2
	ExitPublish    = 3
	ExitRuntime    = 4
)

// UsageError marks an error caused by the invocation itself: bad flags,
// arguments or configuration.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		usage      *UsageError
		unknown    *workspace.UnknownPackageError
		notInPlan  *plan.NotInPlanError
		violation  *plan.OrderViolation
		mismatch   *version.VersionMismatchError
		invalid    *version.ValidationError
		failed     *check.FailedError
		publishErr *publish.PublishFailure
		stage      *release.StageError
	)

	if release.IsInterrupted(err) {
		return ExitRuntime
	}

	// Failing tests in release-prep are a validation failure, not a
	// collaborator crash. Other stages report the code of their cause.
	if errors.As(err, &stage) && stage.Stage == release.StageTests &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return ExitValidation
	}

	switch {
	case errors.As(err, &usage),
		errors.As(err, &unknown),
		errors.As(err, &notInPlan),
		errors.Is(err, version.ErrInvalidVersion),
		errors.Is(err, version.ErrSameVersion),
		isCobraUsage(err):
		return ExitUsage
	case errors.As(err, &violation),
		errors.As(err, &mismatch),
		errors.As(err, &invalid),
		errors.As(err, &failed),
		errors.Is(err, workspace.ErrInheritedVersion):
		return ExitValidation
	case errors.As(err, &publishErr):
		return ExitPublish
	}
	return ExitRuntime
}

// isCobraUsage recognizes argument errors cobra reports as plain errors.
func isCobraUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "required flag")
}

// exactArgs is cobra.ExactArgs reporting a UsageError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// noArgs is cobra.NoArgs reporting a UsageError.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}
