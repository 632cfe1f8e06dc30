package output

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// tagPattern matches one [tag]content[/tag] span. Go regexps have no
// backreferences, so the closing tag is compared in code.
var tagPattern = regexp.MustCompile(`\[([a-z_]+)\](.*?)\[/([a-z_]+)\]`)

// markup expands [tag]...[/tag] spans into styled text.
type markup struct {
	styles map[string]lipgloss.Style
}

// expand applies styles to every known tag. Unknown tags are left as is.
func (m *markup) expand(text string) string {
	return m.replace(text, func(tag, content string) (string, bool) {
		style, ok := m.styles[tag]
		if !ok {
			return "", false
		}
		return style.Render(content), true
	})
}

// strip removes known tags and keeps their content.
func (m *markup) strip(text string) string {
	return m.replace(text, func(tag, content string) (string, bool) {
		if _, ok := m.styles[tag]; !ok {
			return "", false
		}
		return content, true
	})
}

func (m *markup) replace(text string, fn func(tag, content string) (string, bool)) string {
	for {
		changed := false
		text = tagPattern.ReplaceAllStringFunc(text, func(match string) string {
			sub := tagPattern.FindStringSubmatch(match)
			if len(sub) != 4 || sub[1] != sub[3] {
				return match
			}
			out, ok := fn(sub[1], sub[2])
			if !ok {
				return match
			}
			changed = true
			return out
		})
		if !changed {
			return text
		}
	}
}
