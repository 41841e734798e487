package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/history"
	"github.com/zjrosen/releasetrain/internal/infrastructure/sqlite"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/presentation"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/release"
)

var (
	publishDryRun     bool
	publishCrates     []string
	publishStartFrom  string
	publishWait       int
	publishNoVerify   bool
	publishYes        bool
	publishSkipChecks bool
	publishJSON       bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the packages to crates.io in plan order",
	Long: `Validate the plan and the workspace, then publish each package of the plan
in order with cargo publish, waiting after each upload so the registry index
catches up before dependents are published.

Versions already on the registry are skipped, so re-running after a failure
is safe. A failure halts the run and names the package to resume from.

Examples:
  # See what would be published
  releasetrain publish --dry-run

  # Resume after fixing a failure
  releasetrain publish --start-from dear-imgui-wgpu

  # Publish two packages without the prompt (CI)
  releasetrain publish --crates dear-implot-sys,dear-implot --yes`,
	Args: noArgs,
	RunE: runPublish,
}

// newSleeper is the post-publish wait. Tests replace it.
var newSleeper = func() publish.Sleeper { return publish.SleepContext }

func runPublish(cmd *cobra.Command, _ []string) (err error) {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if publishWait < 0 {
		return usageErrorf("--wait must not be negative")
	}
	wait := time.Duration(e.cfg.Registry.WaitSeconds) * time.Second
	if cmd.Flags().Changed("wait") {
		wait = time.Duration(publishWait) * time.Second
	}
	checks, err := checkOptions(e)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, flush, err := e.tracer()
	if err != nil {
		return err
	}
	defer flush()

	var repo history.Repository
	if e.cfg.History.Enabled {
		db, err := sqlite.NewDB(e.cfg.HistoryPath())
		if err != nil {
			log.ErrorErr(log.CatHistory, "History unavailable, continuing without it", err)
			e.printer.Warn("run history unavailable: %v", err)
		} else {
			defer func() { _ = db.Close() }()
			repo = db.RunRepository()
		}
	}

	events := release.NewEvents()
	orch := release.NewOrchestrator(release.Config{
		Plan:      e.plan,
		Checker:   check.NewValidator(e.ws, e.cargo, e.git),
		Publisher: publish.New(e.cargo, newLookup(e.cargo), publish.WithSleeper(newSleeper())),
		History:   repo,
		Metrics:   e.metrics,
		Tracer:    provider.Tracer(),
		Events:    events,
	})
	req := release.PublishRequest{
		Crates:     publishCrates,
		StartFrom:  publishStartFrom,
		DryRun:     publishDryRun,
		Wait:       wait,
		NoVerify:   publishNoVerify || e.cfg.Registry.NoVerify,
		SkipChecks: publishSkipChecks,
		Checks:     checks,
	}

	sel, start, err := orch.Resolve(req)
	if err != nil {
		return err
	}
	if !publishJSON {
		printPublishSummary(e, sel.Names(), start, req)
	}

	if !publishDryRun {
		lock, err := release.AcquireLock(filepath.Join(e.cfg.StateDir(), config.LockFile))
		if err != nil {
			return err
		}
		defer func() {
			if rerr := lock.Release(); rerr != nil {
				log.ErrorErr(log.CatRelease, "Failed to remove publish lock", rerr)
			}
		}()

		if !publishYes && stdinIsTerminal() {
			if !confirm(cmd, "Continue with publishing? [y/N]: ") {
				e.printer.Warn("Publishing cancelled")
				return nil
			}
		}
	}

	done := make(chan struct{})
	subCtx, unsubscribe := context.WithCancel(context.WithoutCancel(ctx))
	defer unsubscribe()
	if !publishJSON {
		sub := events.Subscribe(subCtx)
		go func() {
			defer close(done)
			e.printer.Progress(sub)
		}()
	} else {
		close(done)
	}

	run, runErr := orch.Publish(ctx, req)
	events.Close()
	<-done
	e.writeMetrics()
	if run == nil {
		return runErr
	}

	if publishJSON {
		if err := presentation.NewFormatter(e.out).FormatRun(presentation.FromRun(run)); err != nil {
			return err
		}
		return runErr
	}
	if run.Checks != nil && !run.Checks.Passed() {
		e.printer.Checks(run.Checks)
	}
	e.printer.Run(run)
	return runErr
}

func printPublishSummary(e *env, names []string, start int, req release.PublishRequest) {
	e.printer.Title("Publishing summary")
	fmt.Fprintf(e.out, "  Repository: %s\n", e.root)
	fmt.Fprintf(e.out, "  Packages:   %d\n", len(names)-start)
	fmt.Fprintf(e.out, "  Dry run:    %t\n", req.DryRun)
	fmt.Fprintf(e.out, "  No verify:  %t\n", req.NoVerify)
	fmt.Fprintf(e.out, "  Wait:       %s\n", req.Wait)
	fmt.Fprintln(e.out)
	fmt.Fprintln(e.out, "Publishing order:")
	for i := start; i < len(names); i++ {
		pkg, _ := e.ws.Get(names[i])
		fmt.Fprintf(e.out, "  %d. %s %s\n", i+1, pkg.Name, pkg.Version)
	}
	fmt.Fprintln(e.out)
}

// confirm asks a yes/no question on the command's input. Only y or yes accepts.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "report what would be published without uploading")
	publishCmd.Flags().StringSliceVar(&publishCrates, "crates", nil, "only publish these packages (comma separated), in plan order")
	publishCmd.Flags().StringVar(&publishStartFrom, "start-from", "", "resume at this package of the plan")
	publishCmd.Flags().IntVar(&publishWait, "wait", 0, "seconds to wait after each upload (default: registry.wait_seconds)")
	publishCmd.Flags().BoolVar(&publishNoVerify, "no-verify", false, "pass --no-verify to cargo publish")
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "do not ask for confirmation")
	publishCmd.Flags().BoolVar(&publishSkipChecks, "skip-checks", false, "skip the pre-publish validation suite")
	publishCmd.Flags().BoolVar(&publishJSON, "json", false, "print the run as JSON")
	addSkipFlags(publishCmd)
	rootCmd.AddCommand(publishCmd)
}
