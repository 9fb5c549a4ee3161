package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"text/template"

	"github.com/charmbracelet/glamour"
)

const (
	htmlTemplate     = "report.html.tmpl"
	markdownTemplate = "report.md.tmpl"
)

// Renderer turns a Report into a complete document.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

var funcs = map[string]any{
	"f1": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f4": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"km": func(v float64) string { return fmt.Sprintf("%.0f", v) },
}

// HTML renders the report page.
type HTML struct {
	view *htmltemplate.Template
}

// NewHTML parses the HTML template from assets.
func NewHTML(assets fs.FS) (*HTML, error) {
	view, err := htmltemplate.New(htmlTemplate).Funcs(funcs).ParseFS(assets, htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", htmlTemplate, err)
	}
	return &HTML{view: view}, nil
}

// Render implements Renderer.
func (h *HTML) Render(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.view.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("executing %s: %w", htmlTemplate, err)
	}
	return buf.Bytes(), nil
}

// Markdown renders the report as a Markdown document.
type Markdown struct {
	view *template.Template
}

// NewMarkdown parses the Markdown template from assets.
func NewMarkdown(assets fs.FS) (*Markdown, error) {
	view, err := template.New(markdownTemplate).Funcs(funcs).ParseFS(assets, markdownTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", markdownTemplate, err)
	}
	return &Markdown{view: view}, nil
}

// Render implements Renderer.
func (m *Markdown) Render(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.view.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("executing %s: %w", markdownTemplate, err)
	}
	return buf.Bytes(), nil
}

// Terminal renders the Markdown report styled for a terminal.
type Terminal struct {
	markdown *Markdown
	term     *glamour.TermRenderer
}

// NewTerminal wraps a Markdown renderer. An empty style picks one from the
// terminal's background; "notty" produces plain text.
func NewTerminal(markdown *Markdown, style string, width int) (*Terminal, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	return &Terminal{markdown: markdown, term: term}, nil
}

// Render implements Renderer.
func (t *Terminal) Render(r *Report) ([]byte, error) {
	md, err := t.markdown.Render(r)
	if err != nil {
		return nil, err
	}
	out, err := t.term.Render(string(md))
	if err != nil {
		return nil, fmt.Errorf("styling report: %w", err)
	}
	return []byte(out), nil
}
