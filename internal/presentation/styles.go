package presentation

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"}

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#C78B00", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Diff colors
	DiffAddColor    = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#73F59F"}
	DiffDeleteColor = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF8787"}
	DiffHunkColor   = lipgloss.AdaptiveColor{Light: "#6A1B9A", Dark: "#CBA6F7"}

	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(StatusInfoColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(TextMutedColor)
	LabelStyle   = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(StatusErrorColor)

	diffAddStyle    = lipgloss.NewStyle().Foreground(DiffAddColor)
	diffDeleteStyle = lipgloss.NewStyle().Foreground(DiffDeleteColor)
	diffHunkStyle   = lipgloss.NewStyle().Foreground(DiffHunkColor)

	// BoxStyle frames summaries such as the halt notice.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TextMutedColor).
			Padding(0, 1)
)

// Status glyphs.
const (
	iconPass    = "✓"
	iconFail    = "✗"
	iconSkipped = "-"
	iconWarn    = "!"
	iconPending = "•"
)
