// Package web renders the server-side views: the navigation shell shared by
// every page and the page templates embedded in the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile  = "templates/layout.html"
	partialGlob = "templates/partials/*.html"
	pagesDir    = "templates/pages"
)

// Renderer is a gin HTMLRender holding one template set per page, each
// made of the layout, the shared partials and the page itself.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses every page under templates/pages. Pages are named by
// their path without extension, e.g. "projects/list".
func NewRenderer() (*Renderer, error) {
	partials, err := fs.Glob(templateFS, partialGlob)
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(templateFS, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		files := append([]string{layoutFile}, partials...)
		files = append(files, p)

		t, err := template.New(path.Base(layoutFile)).Funcs(Funcs()).ParseFS(templateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("web: unknown page %q", name))
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Pages lists the parsed page names.
func (r *Renderer) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for name := range r.pages {
		out = append(out, name)
	}
	return out
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"statuses": domain.Statuses,
	}
}

// FormatDate renders a due date as "2 Jan 2006". The zero time renders
// empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}
