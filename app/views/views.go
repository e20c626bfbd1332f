// Package views renders the storefront and back-office pages. The pages are
// deliberately plain server-rendered HTML; the checkout cart is the only
// client-side behaviour.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Kiko4ko1/magnetsbg-store/app/services"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Views holds the parsed template set with pricing helpers bound in.
type Views struct {
	tpl *template.Template
}

// New parses all embedded templates. fmtBGN and fmtEUR format amounts the
// same way everywhere prices appear.
func New(pricing *services.Pricing) (*Views, error) {
	tpl := template.New("").Funcs(template.FuncMap{
		"fmtBGN": pricing.FormatBGN,
		"fmtEUR": pricing.FormatEUR,
	})

	tpl, err := tpl.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse templates: %w", err)
	}
	return &Views{tpl: tpl}, nil
}

// Render writes the named template with the given status code. A template
// failure after the header is written is logged only.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := v.tpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("template render failed", "template", name, "error", err)
	}
}
