package output

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestMarkup(t *testing.T) {
	m := &markup{styles: map[string]lipgloss.Style{
		"path":  lipgloss.NewStyle(),
		"muted": lipgloss.NewStyle(),
	}}

	assert.Equal(t, "a /x b y", m.strip("a [path]/x[/path] b [muted]y[/muted]"))
	assert.Equal(t, "[unknown]x[/unknown]", m.strip("[unknown]x[/unknown]"), "unknown tags are kept")
	assert.Equal(t, "[path]x[/muted]", m.strip("[path]x[/muted]"), "mismatched tags are kept")
	assert.Equal(t, "plain", m.expand("[path]plain[/path]"), "empty styles render content unchanged")
}
