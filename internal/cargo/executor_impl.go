package cargo

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/zjrosen/releasetrain/internal/log"
)

// Compile-time check that RealExecutor implements CargoExecutor.
var _ CargoExecutor = (*RealExecutor)(nil)

// RealExecutor implements CargoExecutor by executing the cargo binary.
type RealExecutor struct {
	bin     string
	workDir string
	output  io.Writer
}

// Option configures a RealExecutor.
type Option func(*RealExecutor)

// WithBinary overrides the cargo binary (default "cargo").
func WithBinary(bin string) Option {
	return func(e *RealExecutor) {
		if bin != "" {
			e.bin = bin
		}
	}
}

// WithOutput mirrors cargo's stderr to w while long commands run.
func WithOutput(w io.Writer) Option {
	return func(e *RealExecutor) { e.output = w }
}

// NewRealExecutor creates a RealExecutor running in workDir.
func NewRealExecutor(workDir string, opts ...Option) *RealExecutor {
	e := &RealExecutor{bin: "cargo", workDir: workDir}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// run executes cargo and returns stdout and stderr.
func (e *RealExecutor) run(ctx context.Context, env []string, stream bool, args ...string) (string, string, error) {
	start := time.Now()
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, e.bin, args...)
	cmd.Dir = e.workDir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stream && e.output != nil {
		cmd.Stderr = io.MultiWriter(&stderr, e.output)
	}

	err := cmd.Run()
	log.Debug(log.CatCargo, "cargo", "args", strings.Join(args, " "), "duration", time.Since(start), "err", err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), stderr.String(), ctxErr
		}
		cerr := &CommandError{Args: args, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr.ExitCode = exitErr.ExitCode()
		}
		return stdout.String(), stderr.String(), cerr
	}
	return stdout.String(), stderr.String(), nil
}

// Publish runs `cargo publish -p <pkg>`.
func (e *RealExecutor) Publish(ctx context.Context, opts PublishOptions) error {
	args := []string{"publish", "-p", opts.Package}
	if opts.NoVerify {
		args = append(args, "--no-verify")
	}
	_, stderr, err := e.run(ctx, nil, true, args...)
	if err != nil {
		if isAlreadyUploaded(stderr) {
			return fmt.Errorf("%w: %w", ErrAlreadyUploaded, err)
		}
		return err
	}
	return nil
}

func isAlreadyUploaded(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "is already uploaded") || strings.Contains(lower, "already exists on crates.io")
}

var searchLinePattern = regexp.MustCompile(`^(\S+)\s*=\s*"([^"]+)"`)

// Search runs `cargo search <name> --limit 1`.
func (e *RealExecutor) Search(ctx context.Context, name string) (SearchResult, error) {
	stdout, _, err := e.run(ctx, nil, false, "search", name, "--limit", "1")
	if err != nil {
		return SearchResult{}, err
	}
	return parseSearch(stdout, name)
}

// parseSearch reads the first `name = "version"  # description` line.
func parseSearch(out, name string) (SearchResult, error) {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		m := searchLinePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[1] != name {
			break
		}
		return SearchResult{Name: m[1], Version: m[2]}, nil
	}
	return SearchResult{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// UpdateDryRun runs `cargo update --workspace --dry-run`. Cargo reports on
// stderr, so both streams are returned together.
func (e *RealExecutor) UpdateDryRun(ctx context.Context) (string, error) {
	stdout, stderr, err := e.run(ctx, nil, false, "update", "--workspace", "--dry-run")
	return stderr + stdout, err
}

// Check runs `cargo check -p <pkg>`.
func (e *RealExecutor) Check(ctx context.Context, pkg string, env []string) error {
	_, _, err := e.run(ctx, env, true, "check", "-p", pkg)
	return err
}

// Test runs `cargo test --workspace --lib`.
func (e *RealExecutor) Test(ctx context.Context) error {
	_, _, err := e.run(ctx, nil, true, "test", "--workspace", "--lib")
	return err
}
