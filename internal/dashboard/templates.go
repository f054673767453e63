package dashboard

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageTemplate is the template name handlers render a View with.
const PageTemplate = "dashboard.tmpl"

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"cell": cellString,
	}).ParseFS(templateFS, "templates/*.tmpl"))
}
