package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"github.com/gin-gonic/gin"
)

var plurals = pluralize.NewClient()

// Plural formats n followed by word in the matching number, e.g. "1 record", "3 repositories"
func Plural(word string, n int) string {
	return humanize.Comma(int64(n)) + " " + plurals.Pluralize(word, n, false)
}

var funcs = template.FuncMap{
	"comma":   func(n int) string { return humanize.Comma(int64(n)) },
	"bytes":   func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
	"percent": func(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) + "%" },
	"plural":  Plural,
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// RenderPage renders the layout with page and disables caching of the result
func RenderPage(c *gin.Context, tmpl *template.Template, status int, page *Page) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
