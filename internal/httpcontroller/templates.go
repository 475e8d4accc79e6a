package httpcontroller

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

//go:embed views/*.html
var viewsFS embed.FS

//go:embed assets
var assetsFS embed.FS

// TemplateRenderer is a custom HTML template renderer for Echo framework.
type TemplateRenderer struct {
	templates *template.Template
}

// Render executes name into a buffer first so a failing template never
// leaves a half written page.
func (t *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		GetLogger().Error("failed to execute template", logger.String("template", name), logger.Error(err))
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(viewsFS, "views/*.html")
}

// setupTemplateRenderer configures the template renderer for the server.
func (s *Server) setupTemplateRenderer() error {
	tmpl, err := parseTemplates()
	if err != nil {
		return errors.New(err).
			Component("httpcontroller").
			Category(errors.CategoryConfiguration).
			Context("operation", "parse-templates").
			Build()
	}
	s.Echo.Renderer = &TemplateRenderer{templates: tmpl}
	return nil
}

func staticAssets() (fs.FS, error) {
	return fs.Sub(assetsFS, "assets")
}
