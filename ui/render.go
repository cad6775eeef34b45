package ui

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown turns a sheet cell into safe inline HTML. Raw HTML in the
// cell is dropped. A single paragraph loses its <p> wrapper so the value
// can sit inside a table cell or a list item.
func renderMarkdown(value string) template.HTML {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions &^ parser.MathJax)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.Safelink | mdhtml.NofollowLinks | mdhtml.HrefTargetBlank,
	})
	out := strings.TrimSpace(string(markdown.ToHTML([]byte(value), p, renderer)))

	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"upper":    strings.ToUpper,
	}
}
