package resume

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func converter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	})
	return markdownConv
}

// Inline renders a single line of résumé text as HTML, so summaries and
// bullets may use emphasis and links. Raw HTML in the source is omitted.
func Inline(s string) template.HTML {
	if s == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := converter().Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return template.HTML(out)
}

// FuncMap exposes Inline to templates as "md".
func FuncMap() template.FuncMap {
	return template.FuncMap{"md": Inline}
}
