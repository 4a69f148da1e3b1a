package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Zachkp/resume-site/internal/clock"
	"github.com/Zachkp/resume-site/internal/resume"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

func staticFS() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// parseTemplates loads every page and fragment. Templates are addressed by
// file name, as gin's LoadHTMLGlob would.
func parseTemplates(c clock.Clock) (*template.Template, error) {
	funcs := resume.FuncMap()
	funcs["comma"] = comma
	funcs["year"] = func() int { return c.Now().Year() }
	funcs["join"] = strings.Join

	t, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return t, nil
}

// comma formats counters of any integer width with thousands separators.
func comma(n any) string {
	switch v := n.(type) {
	case int:
		return humanize.Comma(int64(v))
	case int64:
		return humanize.Comma(v)
	default:
		return fmt.Sprint(v)
	}
}
