// ABOUTME: Shared lipgloss styles for consistent terminal output
// ABOUTME: Defines the palette plus status, label and table styles used by commands

package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#16A34A") // Green
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(14)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(Muted)

	tableHeader = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	tableCell = lipgloss.NewStyle().
			Padding(0, 1)
)

// Success renders a check-marked message
func Success(msg string) string {
	return StatusOK.Render("✓") + " " + msg
}

// Failure renders a cross-marked message
func Failure(msg string) string {
	return StatusError.Render("✗") + " " + msg
}

// Field renders an aligned "label  value" line
func Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label+":"), Value.Render(value))
}
