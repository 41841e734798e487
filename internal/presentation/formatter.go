package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles machine-readable output
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatPlan formats the resolved plan as JSON
func (f *Formatter) FormatPlan(p PlanDTO) error {
	return f.encode(p)
}

// FormatChecks formats check results as JSON
func (f *Formatter) FormatChecks(c CheckDTO) error {
	return f.encode(c)
}

// FormatBump formats a bump result as JSON
func (f *Formatter) FormatBump(b BumpDTO) error {
	return f.encode(b)
}

// FormatRun formats a publish run as JSON
func (f *Formatter) FormatRun(r RunDTO) error {
	return f.encode(r)
}

// FormatHistory formats recorded runs as JSON
func (f *Formatter) FormatHistory(runs []RunDTO) error {
	return f.encode(runs)
}
