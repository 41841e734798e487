package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrInvalidVersion is returned for strings that are not MAJOR.MINOR.PATCH[-pre][+build].
	ErrInvalidVersion = errors.New("invalid version")
	// ErrSameVersion is returned when the target equals the current version.
	ErrSameVersion = errors.New("target version equals the current version")
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// Validate checks that v is a full semantic version without a leading "v".
func Validate(v string) error {
	if !versionPattern.MatchString(v) || !semver.IsValid("v"+v) {
		return fmt.Errorf("%w %q: expected MAJOR.MINOR.PATCH[-prerelease][+build]", ErrInvalidVersion, v)
	}
	return nil
}

// Compare returns -1, 0 or +1 following semver precedence.
func Compare(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// MajorMinor returns the MAJOR.MINOR prefix used for dependency requirements.
func MajorMinor(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return v
	}
	return parts[0] + "." + parts[1]
}
