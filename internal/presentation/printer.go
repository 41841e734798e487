// Package presentation renders releasetrain results for people (lipgloss,
// glamour) and for machines (JSON).
package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/pubsub"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/version"
)

// Printer writes styled, human-readable output.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Title prints a bold heading.
func (p *Printer) Title(s string) {
	p.line("%s", TitleStyle.Render(s))
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	p.line("%s %s", SuccessStyle.Render(iconPass), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.line("%s %s", WarningStyle.Render(iconWarn), fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	p.line("%s %s", ErrorStyle.Render(iconFail), fmt.Sprintf(format, args...))
}

// Plan prints the plan grouped by tier.
func (p *Printer) Plan(dto PlanDTO) {
	p.Title(fmt.Sprintf("Publish plan (%d packages)", len(dto.Packages)))
	for _, tier := range dto.Tiers {
		p.line("")
		p.line("%s", HeaderStyle.Render(tier.Tier))
		for _, pkg := range tier.Packages {
			deps := ""
			if len(pkg.DependsOn) > 0 {
				deps = MutedStyle.Render(" <- " + strings.Join(pkg.DependsOn, ", "))
			}
			p.line("  %s %s %s%s", MutedStyle.Render(fmt.Sprintf("%2d.", pkg.Position+1)),
				pkg.Name, LabelStyle.Render(pkg.Version), deps)
		}
	}
	p.line("")
	if dto.Valid {
		p.Success("dependency order is valid")
	} else {
		p.Error("%s", dto.Violation)
	}
}

// Bump prints what a bump changed or would change. Dry runs include the diff.
func (p *Printer) Bump(r *version.BumpResult) {
	verb := "Bumped"
	if r.DryRun {
		verb = "Would bump"
	}
	p.Title(fmt.Sprintf("%s %d packages %s -> %s", verb, len(r.Packages), r.Old, r.New))
	for _, f := range r.Files {
		p.line("  %s %s %s", SuccessStyle.Render(iconPending), f.Path,
			MutedStyle.Render(fmt.Sprintf("(%s, %d changes)", f.Kind, len(f.Changes))))
	}
	for _, doc := range r.Unchanged {
		p.line("  %s %s %s", MutedStyle.Render(iconSkipped), doc, MutedStyle.Render("(no changes needed)"))
	}
	for _, w := range r.Warnings {
		p.Warn("%s", w)
	}
	if r.DryRun {
		for _, f := range r.Files {
			if f.Diff != "" {
				p.line("")
				p.Diff(f.Diff)
			}
		}
	}
}

// Diff prints a unified diff with added and removed lines colored.
func (p *Printer) Diff(diff string) {
	for _, l := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			p.line("%s", LabelStyle.Render(l))
		case strings.HasPrefix(l, "@@"):
			p.line("%s", diffHunkStyle.Render(l))
		case strings.HasPrefix(l, "+"):
			p.line("%s", diffAddStyle.Render(l))
		case strings.HasPrefix(l, "-"):
			p.line("%s", diffDeleteStyle.Render(l))
		default:
			p.line("%s", l)
		}
	}
}

// Checks prints one line per check and the aggregate.
func (p *Printer) Checks(r *check.Result) {
	p.Title("Pre-publish checks")
	width := 0
	for _, c := range r.Checks {
		width = max(width, lipgloss.Width(c.Name))
	}
	name := lipgloss.NewStyle().Width(width + 2)
	for _, c := range r.Checks {
		icon := statusIcon(c.Status)
		detail := c.Detail
		if c.Status == check.Skipped && detail == "" {
			detail = "skipped"
		}
		p.line("  %s %s%s", icon, name.Render(c.Name), MutedStyle.Render(detail))
		for _, problem := range c.Problems {
			p.line("      %s", problem)
		}
	}
	p.line("")
	if r.Passed() {
		p.Success("%d checks passed", r.Count(check.Pass))
	} else {
		p.Error("%d of %d checks failed", len(r.Failures()), len(r.Checks))
	}
}

func statusIcon(s check.Status) string {
	switch s {
	case check.Pass:
		return SuccessStyle.Render(iconPass)
	case check.Fail:
		return ErrorStyle.Render(iconFail)
	}
	return MutedStyle.Render(iconSkipped)
}

func outcomeIcon(o publish.Outcome) string {
	switch o {
	case publish.Published:
		return SuccessStyle.Render(iconPass)
	case publish.AlreadyPublished, publish.WouldPublish:
		return MutedStyle.Render(iconPass)
	}
	return ErrorStyle.Render(iconFail)
}

// Progress prints run events until the channel closes.
func (p *Printer) Progress(events <-chan pubsub.Event[release.Event]) {
	for ev := range events {
		p.Event(ev)
	}
}

// Event prints a single run event.
func (p *Printer) Event(ev pubsub.Event[release.Event]) {
	e := ev.Payload
	switch ev.Type {
	case pubsub.RunStarted:
		p.line("%s", MutedStyle.Render(fmt.Sprintf("run %s: %d packages", e.RunID, e.Total)))
	case pubsub.StepStarted:
		p.line("%s %s", MutedStyle.Render(fmt.Sprintf("[%d/%d]", e.Position+1, e.Total)), e.Package)
	case pubsub.StepFinished:
		reason := ""
		if e.Reason != "" {
			reason = ": " + e.Reason
		}
		p.line("      %s %s%s %s", outcomeIcon(e.Outcome), e.Outcome, reason,
			MutedStyle.Render(e.Duration.Round(time.Millisecond).String()))
	}
}

// Run prints the final summary of a publish run.
func (p *Printer) Run(r *release.Run) {
	p.line("")
	switch r.State {
	case release.Completed:
		if r.DryRun {
			p.Success("Dry run complete: %d would publish, %d already published",
				r.Count(publish.WouldPublish), r.Count(publish.AlreadyPublished))
			return
		}
		p.Success("Release complete: %d published, %d already published",
			r.Count(publish.Published), r.Count(publish.AlreadyPublished))
	case release.Halted:
		var b strings.Builder
		b.WriteString(ErrorStyle.Render("Release halted") + "\n")
		b.WriteString(r.Reason)
		if next := r.ResumeFrom(); next != "" {
			b.WriteString("\n\n" + LabelStyle.Render("Resume with: ") + "releasetrain publish --start-from " + next)
		}
		p.line("%s", BoxStyle.Render(b.String()))
	default:
		p.line("%s", r.String())
	}
}

// Prep prints the completed stages of release-prep.
func (p *Printer) Prep(r *release.PrepResult) {
	for _, s := range r.Stages {
		p.Success("%s %s", s.Stage, MutedStyle.Render(s.Duration.Round(time.Millisecond).String()))
	}
}

var (
	colTime   = lipgloss.NewStyle().Width(18)
	colState  = lipgloss.NewStyle().Width(11)
	colTarget = lipgloss.NewStyle().Width(14)
	colSteps  = lipgloss.NewStyle().Width(8)
)

// History prints recorded runs as a table, newest first.
func (p *Printer) History(runs []RunDTO) {
	if len(runs) == 0 {
		p.line("%s", MutedStyle.Render("No runs recorded."))
		return
	}
	p.line("%s%s%s%s%s", HeaderStyle.Render(colTime.Render("STARTED")), HeaderStyle.Render(colState.Render("STATE")),
		HeaderStyle.Render(colTarget.Render("VERSION")), HeaderStyle.Render(colSteps.Render("DONE")), HeaderStyle.Render("NOTE"))
	for _, r := range runs {
		state := r.State
		switch state {
		case string(release.Completed):
			state = SuccessStyle.Render(colState.Render(state))
		case string(release.Halted):
			state = ErrorStyle.Render(colState.Render(state))
		default:
			state = WarningStyle.Render(colState.Render(state))
		}
		target := r.Target
		if r.DryRun {
			target += " (dry)"
		}
		note := r.Reason
		if r.ResumeFrom != "" {
			note = strings.TrimSpace(note + " [resume: " + r.ResumeFrom + "]")
		}
		p.line("%s%s%s%s%s", colTime.Render(r.StartedAt.Local().Format("2006-01-02 15:04")), state,
			colTarget.Render(target), colSteps.Render(fmt.Sprintf("%d/%d", r.Cursor+1, len(r.Packages))), MutedStyle.Render(note))
	}
}
