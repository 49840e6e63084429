package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed templates
var TemplatesFS embed.FS

//go:embed static
var StaticFS embed.FS

// Templates holds one parsed set per page, each combining the base layout
// with the page's blocks.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
	},
}

// LoadTemplates parses every page under templates/pages with the base layout.
func LoadTemplates() (*Templates, error) {
	base, err := fs.ReadFile(TemplatesFS, "templates/layouts/base.html")
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(TemplatesFS, "templates/pages")
	if err != nil {
		return nil, err
	}

	t := &Templates{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		page, err := fs.ReadFile(TemplatesFS, path.Join("templates/pages", entry.Name()))
		if err != nil {
			return nil, err
		}

		tmpl, err := template.New(entry.Name()).Funcs(funcs).Parse(string(base))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", entry.Name(), err)
		}
		if _, err := tmpl.Parse(string(page)); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		t.pages[entry.Name()] = tmpl
	}

	return t, nil
}

// Render executes the named page, e.g. "login.html".
func (t *Templates) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// GetStaticFS returns the static file system for serving static files
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
