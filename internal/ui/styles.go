package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan: timestamps
	colorAccent  = lipgloss.Color("#FFD700") // Gold: retrograde bodies
	colorDanger  = lipgloss.Color("#FF5252") // Red: misses and errors
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray: secondary detail
)

// styles holds the styles bound to one renderer, so color detection follows
// the writer being printed to rather than the process's stdout.
type styles struct {
	header lipgloss.Style
	body   lipgloss.Style
	miss   lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().Foreground(colorPrimary).Bold(true),
		body:   r.NewStyle().Foreground(colorAccent),
		miss:   r.NewStyle().Foreground(colorDanger),
		muted:  r.NewStyle().Foreground(colorMuted),
	}
}
