// Package output renders command results for the terminal, for plain text
// consumers and as JSON.
//
// Human-readable output goes through two phases. Go templates embedded
// under templates/ expand the result into text carrying [tag]...[/tag]
// markup, then the markup is either expanded into lipgloss styles or
// stripped, depending on the format.
package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/dfm/pkg/errors"
	"github.com/arthur-debert/dfm/pkg/links"
	"github.com/arthur-debert/dfm/pkg/logging"
	"github.com/arthur-debert/dfm/pkg/paths"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes results to w in a fixed format.
type Renderer struct {
	w         io.Writer
	format    Format
	templates *template.Template
	markup    *markup
	home      string
	logger    zerolog.Logger
}

// NewRenderer creates a Renderer. FormatAuto is resolved against w, so
// anything that is not a terminal gets plain text.
func NewRenderer(w io.Writer, format Format) (*Renderer, error) {
	logger := logging.GetLogger("output.renderer")

	format = format.Resolve(w)

	lg := lipgloss.NewRenderer(w)
	if format == FormatTerminal && lg.ColorProfile() == termenv.Ascii {
		lg.SetColorProfile(termenv.ANSI256)
	}

	r := &Renderer{
		w:      w,
		format: format,
		markup: &markup{styles: newStyleRegistry(lg)},
		home:   paths.HomeDir(),
		logger: logger,
	}

	tmpl, err := template.New("output").Funcs(template.FuncMap{
		"tilde": r.tilde,
		"pad":   func(v interface{}) string { return fmt.Sprintf("%-10v", v) },
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse templates")
	}
	r.templates = tmpl

	logger.Debug().
		Str("format", format.String()).
		Str("colorProfile", fmt.Sprintf("%v", lg.ColorProfile())).
		Msg("Renderer created")

	return r, nil
}

// Format returns the concrete format in use.
func (r *Renderer) Format() Format { return r.format }

// Link renders the result of a link pass.
func (r *Renderer) Link(report *links.LinkReport) error {
	return r.render("link.tmpl", report)
}

// Unlink renders the result of an unlink pass.
func (r *Renderer) Unlink(report *links.UnlinkReport) error {
	return r.render("unlink.tmpl", report)
}

// ProfileRemoval is the result of deleting a named profile.
type ProfileRemoval struct {
	Profile  string            `json:"profile"`
	Path     string            `json:"path"`
	DryRun   bool              `json:"dry_run"`
	Unlinked []links.Directive `json:"unlinked"`
}

// RemoveProfile renders the links dropped and the profile deleted.
func (r *Renderer) RemoveProfile(removal *ProfileRemoval) error {
	return r.render("remove.tmpl", removal)
}

// Status renders one line per directive with its state.
func (r *Renderer) Status(statuses []links.DirectiveStatus) error {
	return r.render("status.tmpl", statuses)
}

// Plan renders the directives a link pass would apply.
func (r *Renderer) Plan(directives []links.Directive) error {
	return r.render("plan.tmpl", directives)
}

// Success writes a one-line confirmation.
func (r *Renderer) Success(msg string) error {
	if r.format == FormatJSON {
		return r.writeJSON(map[string]string{"message": msg})
	}
	return r.writeMarkup("[success]" + msg + "[/success]\n")
}

// Error writes err as "Error: message".
func (r *Renderer) Error(err error) error {
	if r.format == FormatJSON {
		return r.writeJSON(struct {
			Error   string                 `json:"error"`
			Code    errors.ErrorCode       `json:"code"`
			Details map[string]interface{} `json:"details,omitempty"`
		}{
			Error:   err.Error(),
			Code:    errors.GetErrorCode(err),
			Details: errors.GetErrorDetails(err),
		})
	}
	return r.writeMarkup("[error]Error:[/error] " + err.Error() + "\n")
}

func (r *Renderer) render(name string, data interface{}) error {
	if r.format == FormatJSON {
		return r.writeJSON(data)
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to execute template %s", name)
	}
	r.logger.Trace().Str("template", name).Str("output", buf.String()).Msg("Template executed")

	return r.writeMarkup(buf.String())
}

func (r *Renderer) writeMarkup(text string) error {
	if r.format == FormatTerminal {
		text = r.markup.expand(text)
	} else {
		text = r.markup.strip(text)
	}
	_, err := io.WriteString(r.w, text)
	return err
}

func (r *Renderer) writeJSON(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode json")
	}
	return nil
}

// tilde shortens paths under the home directory to ~/...
func (r *Renderer) tilde(path string) string {
	if r.home == "" || r.home == string(filepath.Separator) {
		return path
	}
	if path == r.home {
		return "~"
	}
	if rest := strings.TrimPrefix(path, r.home+string(filepath.Separator)); rest != path {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}
