package sqlite

import (
	"encoding/json"
	"time"

	"github.com/zjrosen/releasetrain/internal/history"
)

// RunModel is the database row for the runs table. Times are Unix
// milliseconds.
type RunModel struct {
	ID         int64
	GUID       string
	Target     string
	DryRun     bool
	State      string
	Cursor     int
	Reason     *string // nullable
	Packages   string  // JSON array
	StartedAt  int64
	FinishedAt *int64 // nullable
}

// StepModel is the database row for the run_steps table.
type StepModel struct {
	Position   int
	Package    string
	Outcome    string
	Reason     *string // nullable
	DurationMS int64
}

func toRunModel(r *history.Run) (*RunModel, error) {
	pkgs := r.Packages
	if pkgs == nil {
		pkgs = []string{}
	}
	encoded, err := json.Marshal(pkgs)
	if err != nil {
		return nil, err
	}
	m := &RunModel{
		ID:        r.ID,
		GUID:      r.GUID,
		Target:    r.Target,
		DryRun:    r.DryRun,
		State:     r.State,
		Cursor:    r.Cursor,
		Reason:    nullable(r.Reason),
		Packages:  string(encoded),
		StartedAt: r.StartedAt.UnixMilli(),
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt.UnixMilli()
		m.FinishedAt = &finished
	}
	return m, nil
}

func toStepModel(s history.Step) StepModel {
	return StepModel{
		Position:   s.Position,
		Package:    s.Package,
		Outcome:    s.Outcome,
		Reason:     nullable(s.Reason),
		DurationMS: s.Duration.Milliseconds(),
	}
}

func (m *RunModel) toDomain(steps []StepModel) *history.Run {
	r := &history.Run{
		ID:        m.ID,
		GUID:      m.GUID,
		Target:    m.Target,
		DryRun:    m.DryRun,
		State:     m.State,
		Cursor:    m.Cursor,
		Reason:    deref(m.Reason),
		StartedAt: time.UnixMilli(m.StartedAt),
	}
	_ = json.Unmarshal([]byte(m.Packages), &r.Packages)
	if m.FinishedAt != nil {
		r.FinishedAt = time.UnixMilli(*m.FinishedAt)
	}
	for _, s := range steps {
		r.Steps = append(r.Steps, history.Step{
			Position: s.Position,
			Package:  s.Package,
			Outcome:  s.Outcome,
			Reason:   deref(s.Reason),
			Duration: time.Duration(s.DurationMS) * time.Millisecond,
		})
	}
	return r
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
