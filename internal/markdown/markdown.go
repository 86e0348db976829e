// Package markdown renders a translated form as a readable Markdown document
// or as an HTML preview page.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/valpere/formtran/internal"
)

// FromForm writes form as Markdown: the title as a heading, each question as
// a numbered subheading, radio options as a list of (  ) and checkbox
// options as a list of [ ].
func FromForm(form internal.Form) []byte {
	var b bytes.Buffer

	title := form.Title
	if title == "" {
		title = "Untitled form"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	if form.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", escape(form.Description))
	}

	for _, q := range form.Questions {
		fmt.Fprintf(&b, "## %d. %s", q.ID, escape(q.Title))
		if q.Required {
			b.WriteString(" \\*")
		}
		b.WriteString("\n\n")

		if q.Description != "" {
			fmt.Fprintf(&b, "_%s_\n\n", escape(q.Description))
		}

		switch q.Type {
		case internal.QuestionRadio:
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "- ( ) %s\n", escape(opt))
			}
		case internal.QuestionCheckbox:
			for _, opt := range q.Options {
				fmt.Fprintf(&b, "- \\[ \\] %s\n", escape(opt))
			}
		default:
			b.WriteString("> ______________________\n")
		}
		b.WriteString("\n")
	}

	return b.Bytes()
}

func ToHTML(md []byte) string {
	opts := mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	}
	renderer := mdhtml.NewRenderer(opts)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	return string(markdown.Render(p.Parse(md), renderer))
}

// Page wraps the rendered form in a standalone HTML document.
func Page(form internal.Form, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=%q>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n",
		lang, html.EscapeString(form.Title))
	b.WriteString(ToHTML(FromForm(form)))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

// escape keeps form text literal inside the generated Markdown.
func escape(s string) string {
	return escaper.Replace(strings.TrimSpace(s))
}
