package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// Renderer manages template parsing and rendering with isolated template
// sets: each page is parsed into its own clone of the layout, and partials
// are shared by every set.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses layout.html, partials/*.html and every other *.html
// page found at the root of fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFS(fsys, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob partials: %w", err)
	}
	if len(partials) > 0 {
		if baseTmpl, err = baseTmpl.ParseFS(fsys, partials...); err != nil {
			return nil, fmt.Errorf("failed to parse partials: %w", err)
		}
	}
	templates["partials"] = baseTmpl

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	for _, page := range pages {
		if page == "layout.html" {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(fsys, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates[strings.TrimSuffix(page, path.Ext(page))] = pageTmpl
	}

	return &Renderer{
		templates: templates,
	}, nil
}

// Execute returns the named template set.
func (r *Renderer) Execute(name string) (*template.Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render writes the page name, wrapped in the layout, to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.Execute(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderHTTP renders a full page. The output is buffered so a template
// failure still produces a clean 500.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data any) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a full page with the given status code.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data any) {
	r.renderBuffered(w, status, func(buf *bytes.Buffer) error {
		return r.Render(buf, name, data)
	})
}

// RenderPartialHTTP renders a single named partial without the layout.
func (r *Renderer) RenderPartialHTTP(w http.ResponseWriter, partial string, data any) {
	r.renderBuffered(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return r.templates["partials"].ExecuteTemplate(buf, partial, data)
	})
}

func (r *Renderer) renderBuffered(w http.ResponseWriter, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		slog.Default().Error("render error", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
