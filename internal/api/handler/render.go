package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/bethehero/web/internal/core/domain"
)

//go:embed views/*.html
var views embed.FS

// Full pages, each executed through the layout.
const (
	pageLogin       = "login"
	pageRegister    = "register"
	pageIncidents   = "incidents"
	pageIncidentNew = "incident_new"
	pageError       = "error"
)

// Fragments rendered without the layout.
const (
	fragmentMore   = "more"
	fragmentToasts = "toasts"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// formatBRL renders v the way pt-BR shows Brazilian reais, e.g. "R$ 1.234,50".
func formatBRL(v float64) string {
	return brl.Sprintf("R$ %v", number.Decimal(v, number.Scale(2)))
}

var funcs = template.FuncMap{
	"currency": formatBRL,
	"fieldError": func(errs domain.FieldErrors, field string) string {
		return errs[field]
	},
}

// Renderer executes the embedded views. It implements echo.Renderer.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// NewRenderer parses every view up front.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLogin, pageRegister, pageIncidents, pageIncidentNew, pageError} {
		t, err := template.New(name).Funcs(funcs).ParseFS(views,
			"views/layout.html", "views/partials.html", "views/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		r.pages[name] = t
	}

	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(views, "views/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	r.fragments = fragments
	return r, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	if t, ok := r.pages[name]; ok {
		return t.ExecuteTemplate(w, "layout", data)
	}
	if t := r.fragments.Lookup(name); t != nil {
		return t.Execute(w, data)
	}
	return fmt.Errorf("render: unknown view %q", name)
}
