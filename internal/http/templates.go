package http

import (
	"embed"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"loan-predictor/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parsea las vistas embebidas.
func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"money": func(v float64) string {
			return humanize.CommafWithDigits(v, 2)
		},
		"timestamp": func(t time.Time) string {
			return t.Format(domain.HistoryTimeLayout)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
