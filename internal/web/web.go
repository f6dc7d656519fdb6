// Package web holds the console's HTML templates.
package web

import (
	"embed"
	"html/template"
	"strings"
	"unicode"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/routes"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses every page. Pages are addressed by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"initials":   Initials,
		"roleLabel":  func(r models.UserRole) string { return r.Label() },
		"userEdit":   routes.UserEdit,
		"userUpdate": routes.UserUpdate,
		"userDelete": routes.UserDelete,
	}
}

// Initials returns the upper-cased first letters of up to two words of name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(word)[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
