package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the TUI.
type Styles struct {
	// Layout
	App       lipgloss.Style
	Output    lipgloss.Style
	StatusBar lipgloss.Style

	// Pane titles
	PaneTitle        lipgloss.Style
	PaneTitleFocused lipgloss.Style
	Stats            lipgloss.Style

	// Output modes
	Markup   lipgloss.Style
	FileInfo lipgloss.Style

	// Status bar
	KeyHint         lipgloss.Style
	KeyHintDisabled lipgloss.Style
	Notice          lipgloss.Style
	PromptLabel     lipgloss.Style
	Spinner         lipgloss.Style

	// Misc
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle(),
		Output: lipgloss.NewStyle().
			Padding(0),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		PaneTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		PaneTitleFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		Stats: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),

		Markup: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		FileInfo: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),

		KeyHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		KeyHintDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")), // Muted yellow
		PromptLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
	}
}
