package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/releasetrain/internal/cargo"
	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/git"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/metrics"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/presentation"
	"github.com/zjrosen/releasetrain/internal/registry"
	"github.com/zjrosen/releasetrain/internal/tracing"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// newCargo builds the cargo executor. Tests replace it with a fake.
var newCargo = func(root string, out io.Writer) cargo.CargoExecutor {
	return cargo.NewRealExecutor(root, cargo.WithBinary(cfg.Registry.Cargo), cargo.WithOutput(out))
}

// newGit builds the git executor. Tests replace it with a fake.
var newGit = func(root string) git.GitExecutor {
	return git.NewRealExecutor(root)
}

// newLookup builds the registry lookup. Tests replace it with a fake.
var newLookup = func(c cargo.CargoExecutor) registry.Lookup {
	var source registry.Source
	if cfg.Registry.Lookup == config.LookupSearch {
		source = registry.NewSearchSource(c)
	} else {
		source = registry.NewIndexClient(cfg.Registry.IndexURL,
			time.Duration(cfg.Registry.TimeoutSeconds)*time.Second, "releasetrain/"+appVersion)
	}
	return registry.NewCachedLookup(source, time.Duration(cfg.Registry.CacheTTLSeconds)*time.Second)
}

// stdinIsTerminal reports whether prompts can be answered.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// env is the loaded workspace and its collaborators for one command.
type env struct {
	cfg     config.Config
	root    string
	ws      *workspace.Workspace
	plan    *plan.Plan
	cargo   cargo.CargoExecutor
	git     git.GitExecutor
	metrics *metrics.Metrics

	out     io.Writer
	printer *presentation.Printer
}

// loadEnv validates the configuration and loads the workspace.
func loadEnv(cmd *cobra.Command) (*env, error) {
	if configErr != nil {
		return nil, &UsageError{Err: configErr}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, &UsageError{Err: fmt.Errorf("invalid configuration: %w", err)}
	}
	root, err := workspaceRoot()
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Load(afero.NewOsFs(), root, cfg.Packages)
	if err != nil {
		return nil, err
	}
	p, err := plan.New(ws, cfg.Plan)
	if err != nil {
		return nil, &UsageError{Err: fmt.Errorf("invalid plan: %w", err)}
	}

	c := cfg
	c.Root = root
	out := cmd.OutOrStdout()
	return &env{
		cfg:     c,
		root:    root,
		ws:      ws,
		plan:    p,
		cargo:   newCargo(root, cmd.ErrOrStderr()),
		git:     newGit(root),
		metrics: metrics.New(),
		out:     out,
		printer: presentation.NewPrinter(out),
	}, nil
}

// reload re-reads every manifest, e.g. after a bump.
func (e *env) reload() ([]workspace.Package, error) {
	ws, err := workspace.Load(e.ws.Fs(), e.root, e.cfg.Packages)
	if err != nil {
		return nil, err
	}
	e.ws = ws
	return ws.Packages(), nil
}

// tracer starts the configured trace provider. The returned function flushes it.
func (e *env) tracer() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(e.cfg.Tracing, e.cfg.TracesPath())
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	return provider, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to flush traces", err)
		}
	}, nil
}

// writeMetrics exports the metrics textfile when configured. Failures are
// logged only; metrics never change the outcome of a command.
func (e *env) writeMetrics() {
	path := e.cfg.Metrics.TextfilePath
	if path == "" {
		return
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.root, path)
	}
	if err := e.metrics.WriteTextfile(path); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write metrics", err, "path", path)
		return
	}
	log.Debug(log.CatConfig, "Wrote metrics", "path", path)
}

// renderer returns a markdown renderer suited to the output stream.
func (e *env) renderer() *presentation.Renderer {
	style := "notty"
	if f, ok := e.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		style = "dark"
	}
	r, err := presentation.NewRenderer(80, style)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create markdown renderer", err)
		return nil
	}
	return r
}

// configPath returns the config file in use, or the workspace default.
func (e *env) configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(e.root, config.DirName, config.FileName)
}
