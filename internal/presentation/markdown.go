package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour for terminal checklists.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewRenderer creates a markdown renderer with the given width and style.
// style is a glamour standard style name; empty defaults to "dark". "notty"
// renders plain text for pipes and CI logs.
func NewRenderer(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// NextStepsKind selects the checklist variant.
type NextStepsKind int

const (
	// AfterBump follows a manual bump: tests still have to run.
	AfterBump NextStepsKind = iota
	// AfterPrep follows release-prep, which already ran tests and checks.
	AfterPrep
)

// NextSteps returns the follow-up checklist for a new version as markdown.
func NextSteps(kind NextStepsKind, newVersion string) string {
	var b strings.Builder
	b.WriteString("## Next steps\n\n")
	steps := []string{
		"Review the changes: `git diff`",
		fmt.Sprintf("Add a `%s` section to `CHANGELOG.md`", newVersion),
		"Refresh the lockfile: `cargo update --workspace`",
	}
	if kind == AfterBump {
		steps = append(steps,
			"Regenerate bindings if the native sources changed: `releasetrain bindings`",
			"Run the tests: `cargo test --workspace`",
			"Validate: `releasetrain check`",
		)
	}
	steps = append(steps,
		fmt.Sprintf("Commit: `git commit -am \"Release v%s\"`", newVersion),
		"Preview the publish: `releasetrain publish --dry-run`",
		"Publish: `releasetrain publish`",
	)
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// NextSteps prints the rendered checklist. Rendering errors fall back to the
// raw markdown.
func (p *Printer) NextSteps(r *Renderer, kind NextStepsKind, newVersion string) {
	md := NextSteps(kind, newVersion)
	if r != nil {
		if out, err := r.Render(md); err == nil {
			md = out
		}
	}
	_, _ = fmt.Fprint(p.w, "\n"+md)
}
