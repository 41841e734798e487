package version

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// VersionMismatchError is returned when bumped packages do not all share the
// expected current version.
type VersionMismatchError struct {
	Expected string
	// Divergent maps package name to the version it actually carries.
	Divergent map[string]string
}

func (e *VersionMismatchError) Error() string {
	names := slices.Sorted(maps.Keys(e.Divergent))
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%s", name, e.Divergent[name])
	}
	return fmt.Sprintf("packages not at version %s: %s", e.Expected, strings.Join(parts, ", "))
}

// Problem is one reason a file cannot take part in a bump.
type Problem struct {
	Path   string
	Reason string
}

// ValidationError is returned when the pre-commit check finds problems.
// No file has been written when it is returned.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Path + ": " + p.Reason
	}
	return "bump aborted, no files written: " + strings.Join(parts, "; ")
}
