package bindings

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/zjrosen/releasetrain/internal/log"
)

var _ Runner = (*CommandRunner)(nil)

// CommandRunner runs the configured generator command in the workspace root.
type CommandRunner struct {
	command []string
	workDir string
	output  io.Writer
}

// NewCommandRunner creates a CommandRunner. command is the program followed
// by its fixed arguments, e.g. ["python", "tools/update_submodule_and_bindings.py"].
// Generator output is streamed to output when it is non-nil.
func NewCommandRunner(command []string, workDir string, output io.Writer) *CommandRunner {
	return &CommandRunner{command: command, workDir: workDir, output: output}
}

// Run invokes the generator.
func (r *CommandRunner) Run(ctx context.Context, req Request) error {
	if len(r.command) == 0 {
		return errors.New("no binding generator command configured")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	argv := append(append([]string{}, r.command...), req.Args()...)
	start := time.Now()
	//nolint:gosec // G204: command comes from the workspace configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if r.output != nil {
		cmd.Stdout = r.output
		cmd.Stderr = io.MultiWriter(&stderr, r.output)
	}

	err := cmd.Run()
	log.Debug(log.CatBindings, "generator", "argv", strings.Join(argv, " "), "duration", time.Since(start), "err", err)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	cerr := &CommandError{Command: argv, Stderr: stderr.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cerr.ExitCode = exitErr.ExitCode()
	}
	return cerr
}
