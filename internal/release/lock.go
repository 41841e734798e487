package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zjrosen/releasetrain/internal/log"
)

// Lock is an exclusive publish lock file.
type Lock struct {
	path string
}

// AcquireLock creates path exclusively and writes the current pid into it.
// An existing file yields *LockHeldError.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // path comes from configuration
	if errors.Is(err, os.ErrExist) {
		pid, _ := os.ReadFile(path) //nolint:gosec // see above
		return nil, &LockHeldError{Path: path, PID: string(pid)}
	}
	if err != nil {
		return nil, fmt.Errorf("creating lock: %w", err)
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing lock: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("closing lock: %w", err)
	}
	log.Debug(log.CatRelease, "Acquired publish lock", "path", path)
	return &Lock{path: path}, nil
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lock: %w", err)
	}
	return nil
}
