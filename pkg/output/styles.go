package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive palette, light / dark.
var (
	headingColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	pathColor    = lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#66D9E8"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#6C757D"}
	successColor = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#69DB7C"}
	warningColor = lipgloss.AdaptiveColor{Light: "#E67700", Dark: "#FFD43B"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF6B6B"}
	foreignColor = lipgloss.AdaptiveColor{Light: "#862E9C", Dark: "#DA77F2"}
)

// newStyleRegistry maps markup tag names to styles bound to r.
func newStyleRegistry(r *lipgloss.Renderer) map[string]lipgloss.Style {
	return map[string]lipgloss.Style{
		"heading": r.NewStyle().Foreground(headingColor).Bold(true),
		"path":    r.NewStyle().Foreground(pathColor),
		"muted":   r.NewStyle().Foreground(mutedColor),
		"success": r.NewStyle().Foreground(successColor).Bold(true),
		"warning": r.NewStyle().Foreground(warningColor).Bold(true),
		"error":   r.NewStyle().Foreground(errorColor).Bold(true),
		"bold":    r.NewStyle().Bold(true),

		// link states
		"linked":     r.NewStyle().Foreground(successColor),
		"missing":    r.NewStyle().Foreground(mutedColor),
		"obstructed": r.NewStyle().Foreground(warningColor),
		"foreign":    r.NewStyle().Foreground(foreignColor),
	}
}
