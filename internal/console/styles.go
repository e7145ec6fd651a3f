package console

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary     = lipgloss.Color("#2196F3")
	ColorMuted       = lipgloss.Color("#6b7280")
	ColorDestructive = lipgloss.Color("#e53935")
	ColorSuccess     = lipgloss.Color("#8BC34A")
	ColorWarning     = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the screen.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Metric   lipgloss.Style
	Reason   lipgloss.Style
	Approve  lipgloss.Style
	Reject   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Subtitle: lipgloss.NewStyle().Foreground(ColorMuted).Italic(true),
		Header:   lipgloss.NewStyle().Bold(true).Underline(true),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
		Metric:   lipgloss.NewStyle().Bold(true).Padding(0, 2),
		Reason:   lipgloss.NewStyle().Foreground(ColorWarning),
		Approve:  lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess),
		Reject:   lipgloss.NewStyle().Bold(true).Foreground(ColorDestructive),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(ColorDestructive),
		Help:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}
