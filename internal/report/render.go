package report

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/dashboard.html
var templates embed.FS

var dashboard = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// Render writes the report as a single HTML page. Charts are drawn in the
// browser from the report JSON embedded in the page.
func Render(w io.Writer, r *Report) error {
	return dashboard.Execute(w, r)
}
