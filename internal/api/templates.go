// internal/api/templates.go
package api

import (
	"embed"
	"html/template"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/style.css
var styleCSS []byte

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"playURL": playURL,
}).ParseFS(templateFS, "templates/*.html"))

// playURL builds an escaped /play/ link for a quiz file path. Paths may
// contain spaces or other characters that need percent-encoding.
func playURL(rel string) string {
	u := url.URL{Path: "/play/" + rel}
	return u.EscapedPath()
}
