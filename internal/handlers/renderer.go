package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*
var templatesFS embed.FS

// Renderer handles template rendering
type Renderer struct {
	funcs  template.FuncMap
	logger logrus.FieldLogger
}

// NewRenderer creates a new template renderer. imageBaseURL prefixes TMDb
// image paths (e.g. https://image.tmdb.org/t/p).
func NewRenderer(imageBaseURL string, logger logrus.FieldLogger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"toJSON": func(v interface{}) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
		"poster": func(size string, path *string) string {
			return imageURL(imageBaseURL, size, path, posterPlaceholder)
		},
		"profile": func(size string, path *string) string {
			return imageURL(imageBaseURL, size, path, profilePlaceholder)
		},
		"year":      ReleaseYear,
		"rating":    Rating,
		"runtime":   runtimeLabel,
		"genres":    genreList,
		"deref":     deref,
		"orDefault": orDefault,
	}

	// Parse everything once so a broken template fails at startup
	if _, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"); err != nil {
		return nil, err
	}

	return &Renderer{
		funcs:  funcMap,
		logger: logger,
	}, nil
}

// Render renders a template with data
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	// Each page is parsed with the layout alone so pages can define the same blocks
	tmpl, err := template.New("").Funcs(r.funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return err
	}

	return tmpl.ExecuteTemplate(w, name, data)
}

// RenderPage renders a page template with the given status and handles errors
func (r *Renderer) RenderPage(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Render into a buffer first so a template error can still produce a clean 500
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.WithError(err).WithField("template", name).Error("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
