package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the page template failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// PageData holds the values used to assemble a standalone HTML page.
type PageData struct {
	Title string
	Date  string // Already resolved, empty = omitted
	CSS   string
	Body  string // HTML fragment from RenderHTML or an HTMLConverter
}

// pageView is what the template sees. Body and CSS are pre-sanitized.
type pageView struct {
	Title string
	Date  string
	CSS   template.CSS
	Body  template.HTML
}

// PageBuilder defines the contract for standalone page assembly.
type PageBuilder interface {
	BuildPage(ctx context.Context, data *PageData) (string, error)
}

// PageAssembly renders a page template around a result fragment.
type PageAssembly struct {
	tmpl *template.Template
}

// NewPageAssembly creates a PageAssembly from template content.
// Returns error if the template cannot be parsed.
func NewPageAssembly(tmplContent string) (*PageAssembly, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &PageAssembly{tmpl: tmpl}, nil
}

// BuildPage executes the page template.
// The body is trusted as-is: callers must only pass fragments produced by the
// escaping renderers in this package.
func (p *PageAssembly) BuildPage(ctx context.Context, data *PageData) (string, error) {
	if data == nil {
		data = &PageData{}
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	view := pageView{
		Title: data.Title,
		Date:  data.Date,
		CSS:   template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- sanitized above
		Body:  template.HTML(data.Body),            // #nosec G203 -- produced by escaping renderer
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}
