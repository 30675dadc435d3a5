package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templates embed.FS

var (
	titleCase = cases.Title(language.English)
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))

	reportTemplate = template.Must(
		template.New("report.html.tmpl").
			Funcs(sprig.HtmlFuncMap()).
			Funcs(template.FuncMap{
				"label":    func(v any) string { return Label(fmt.Sprint(v)) },
				"markdown": renderMarkdown,
			}).
			ParseFS(templates, "templates/report.html.tmpl"),
	)
)

// Label turns an enum value such as INFORMATION_DISCLOSURE into
// "Information Disclosure".
func Label(v string) string {
	return titleCase.String(strings.ReplaceAll(strings.ToLower(v), "_", " "))
}

// renderMarkdown converts user-supplied Markdown to HTML. Raw HTML in the
// source is escaped by goldmark.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// RenderHTML renders the report as a standalone HTML document.
func RenderHTML(data *Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report html: %w", err)
	}
	return buf.Bytes(), nil
}
