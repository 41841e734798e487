package presentation

import (
	"time"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/history"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/version"
)

// PlanDTO represents the resolved publish plan for presentation
type PlanDTO struct {
	Valid     bool      `json:"valid"`
	Violation string    `json:"violation,omitempty"`
	Tiers     []TierDTO `json:"tiers"`
	Packages  []string  `json:"packages"`
}

// TierDTO is one tier of the plan with its packages in order.
type TierDTO struct {
	Tier     string       `json:"tier"`
	Packages []PackageDTO `json:"packages"`
}

// PackageDTO represents one plan entry.
type PackageDTO struct {
	Position       int      `json:"position"`
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Kind           string   `json:"kind"`
	Path           string   `json:"path"`
	DependsOn      []string `json:"depends_on"` // always present
	NeedsArtifacts bool     `json:"needs_artifacts"`
	Application    bool     `json:"application"`
}

// FromPlan converts a plan and its validation error to a DTO.
func FromPlan(p *plan.Plan, validation error) PlanDTO {
	dto := PlanDTO{Valid: validation == nil, Packages: p.Names(), Tiers: make([]TierDTO, 0)}
	if validation != nil {
		dto.Violation = validation.Error()
	}

	position := make(map[string]int, p.Len())
	for i, name := range p.Names() {
		position[name] = i
	}
	for _, g := range p.Groups() {
		tier := TierDTO{Tier: g.Tier.String(), Packages: make([]PackageDTO, 0, len(g.Packages))}
		for _, pkg := range g.Packages {
			deps := make([]string, len(pkg.Dependencies))
			copy(deps, pkg.Dependencies)
			tier.Packages = append(tier.Packages, PackageDTO{
				Position:       position[pkg.Name],
				Name:           pkg.Name,
				Version:        pkg.Version,
				Kind:           pkg.Kind,
				Path:           pkg.Dir,
				DependsOn:      deps,
				NeedsArtifacts: pkg.NeedsArtifacts(),
				Application:    pkg.IsApplication(),
			})
		}
		dto.Tiers = append(dto.Tiers, tier)
	}
	return dto
}

// CheckDTO represents a validation result.
type CheckDTO struct {
	Passed bool                `json:"passed"`
	Checks []check.CheckResult `json:"checks"`
}

// FromChecks converts a check result to a DTO.
func FromChecks(r *check.Result) CheckDTO {
	return CheckDTO{Passed: r.Passed(), Checks: r.Checks}
}

// BumpDTO represents a bump result.
type BumpDTO struct {
	Old       string          `json:"old"`
	New       string          `json:"new"`
	DryRun    bool            `json:"dry_run"`
	Downgrade bool            `json:"downgrade,omitempty"`
	Packages  []string        `json:"packages"`
	Files     []FileChangeDTO `json:"files"`
	Unchanged []string        `json:"unchanged,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// FileChangeDTO represents the edits to one file.
type FileChangeDTO struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Changes int    `json:"changes"`
	Diff    string `json:"diff,omitempty"`
}

// FromBump converts a bump result to a DTO.
func FromBump(r *version.BumpResult) BumpDTO {
	dto := BumpDTO{
		Old:       r.Old,
		New:       r.New,
		DryRun:    r.DryRun,
		Downgrade: r.Downgrade,
		Packages:  r.Packages,
		Files:     make([]FileChangeDTO, 0, len(r.Files)),
		Unchanged: r.Unchanged,
		Warnings:  r.Warnings,
	}
	for _, f := range r.Files {
		dto.Files = append(dto.Files, FileChangeDTO{Path: f.Path, Kind: string(f.Kind), Changes: len(f.Changes), Diff: f.Diff})
	}
	return dto
}

// RunDTO represents a publish run, live or recorded.
type RunDTO struct {
	ID         string    `json:"id"`
	Target     string    `json:"target"`
	DryRun     bool      `json:"dry_run"`
	State      string    `json:"state"`
	Cursor     int       `json:"cursor"`
	ResumeFrom string    `json:"resume_from,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Packages   []string  `json:"packages"`
	Steps      []StepDTO `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// StepDTO represents one package outcome.
type StepDTO struct {
	Position int     `json:"position"`
	Package  string  `json:"package"`
	Outcome  string  `json:"outcome"`
	Reason   string  `json:"reason,omitempty"`
	Seconds  float64 `json:"seconds"`
}

// FromRun converts an orchestrator run to a DTO.
func FromRun(r *release.Run) RunDTO {
	dto := RunDTO{
		ID:         r.ID,
		Target:     r.Target,
		DryRun:     r.DryRun,
		State:      string(r.State),
		Cursor:     r.Cursor,
		ResumeFrom: r.ResumeFrom(),
		Reason:     r.Reason,
		Packages:   r.Plan,
		Steps:      make([]StepDTO, 0, len(r.Steps)),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if r.State == release.Completed {
		dto.ResumeFrom = ""
	}
	for i, s := range r.Steps {
		dto.Steps = append(dto.Steps, StepDTO{
			Position: r.Start + i,
			Package:  s.Package,
			Outcome:  string(s.Outcome),
			Reason:   s.Reason,
			Seconds:  s.Duration.Seconds(),
		})
	}
	return dto
}

// FromHistory converts a recorded run to a DTO.
func FromHistory(r *history.Run) RunDTO {
	dto := RunDTO{
		ID:         r.GUID,
		Target:     r.Target,
		DryRun:     r.DryRun,
		State:      r.State,
		Cursor:     r.Cursor,
		Reason:     r.Reason,
		Packages:   r.Packages,
		Steps:      make([]StepDTO, 0, len(r.Steps)),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if r.State == string(release.Halted) && r.Cursor+1 < len(r.Packages) {
		dto.ResumeFrom = r.Packages[r.Cursor+1]
	}
	for _, s := range r.Steps {
		dto.Steps = append(dto.Steps, StepDTO{
			Position: s.Position,
			Package:  s.Package,
			Outcome:  s.Outcome,
			Reason:   s.Reason,
			Seconds:  s.Duration.Seconds(),
		})
	}
	return dto
}

// FromHistoryList converts recorded runs to DTOs
func FromHistoryList(runs []*history.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i, r := range runs {
		dtos[i] = FromHistory(r)
	}
	return dtos
}
