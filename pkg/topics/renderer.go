package topics

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns a topic's raw content into display text. ext is the topic
// file's extension, including the dot.
type Renderer interface {
	Render(content, ext string) string
}

// PlainRenderer prints topics verbatim.
type PlainRenderer struct{}

func (*PlainRenderer) Render(content, _ string) string { return content }

// GlamourRenderer styles markdown topics for a terminal.
type GlamourRenderer struct {
	// Style is a glamour style name or path; "" and "auto" detect the
	// terminal background.
	Style string
	// Width wraps output; 0 keeps glamour's default.
	Width int
}

func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

func (g *GlamourRenderer) options() []glamour.TermRendererOption {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if g.Style != "" && g.Style != "auto" {
		opts[0] = glamour.WithStylePath(g.Style)
	}
	if g.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(g.Width))
	}
	return opts
}

// Render styles .md content. Anything else, or a glamour failure, is
// returned unchanged.
func (g *GlamourRenderer) Render(content, ext string) string {
	if ext != ".md" {
		return content
	}
	tr, err := glamour.NewTermRenderer(g.options()...)
	if err != nil {
		return content
	}
	if out, err := tr.Render(content); err == nil {
		return out
	}
	return content
}
