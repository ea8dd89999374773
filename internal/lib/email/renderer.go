package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded HTML templates.
//
// Templates are parsed once; html/template escapes every interpolated value
// for its HTML context.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse email templates")
	}

	return &Renderer{templates: tmpl}, nil
}

// Render executes templateName with data and returns the HTML document.
func (r *Renderer) Render(templateName Template, data any) (string, error) {
	tmpl := r.templates.Lookup(string(templateName) + ".html")
	if tmpl == nil {
		return "", errors.Errorf("email template %s not found", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	return body.String(), nil
}
