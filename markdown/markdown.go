// Package markdown provides a small Markdown-to-HTML renderer as a templ
// component, covering what article and project bodies actually use:
// headings, paragraphs, lists, blockquotes, fenced code, and inline marks.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	lines := strings.Split(md, "\n")
	inPara := false
	inList := false
	inOrdered := false
	inQuote := false
	inCode := false

	closePara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	closeLists := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
		if inOrdered {
			buf.WriteString("</ol>")
			inOrdered = false
		}
	}
	closeQuote := func() {
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				buf.WriteString("</code></pre>")
				inCode = false
			} else {
				closePara()
				closeLists()
				closeQuote()
				buf.WriteString("<pre><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteString("\n")
			continue
		}

		switch {
		case trimmed == "":
			closePara()
			closeLists()
			closeQuote()
		case strings.HasPrefix(trimmed, "### "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h3>" + inline(strings.TrimPrefix(trimmed, "### ")) + "</h3>")
		case strings.HasPrefix(trimmed, "## "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h2>" + inline(strings.TrimPrefix(trimmed, "## ")) + "</h2>")
		case strings.HasPrefix(trimmed, "# "):
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<h1>" + inline(strings.TrimPrefix(trimmed, "# ")) + "</h1>")
		case trimmed == "---":
			closePara()
			closeLists()
			closeQuote()
			buf.WriteString("<hr>")
		case strings.HasPrefix(trimmed, "> "):
			closePara()
			closeLists()
			if !inQuote {
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			buf.WriteString("<p>" + inline(strings.TrimPrefix(trimmed, "> ")) + "</p>")
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			closePara()
			closeQuote()
			if inOrdered {
				buf.WriteString("</ol>")
				inOrdered = false
			}
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>" + inline(trimmed[2:]) + "</li>")
		case reOrdered.MatchString(trimmed):
			closePara()
			closeQuote()
			if inList {
				buf.WriteString("</ul>")
				inList = false
			}
			if !inOrdered {
				buf.WriteString("<ol>")
				inOrdered = true
			}
			buf.WriteString("<li>" + inline(reOrdered.ReplaceAllString(trimmed, "")) + "</li>")
		default:
			closeLists()
			closeQuote()
			if !inPara {
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(inline(trimmed))
		}
	}

	closePara()
	closeLists()
	closeQuote()
	if inCode {
		buf.WriteString("</code></pre>")
	}
}

// inline escapes a line and applies inline marks: code first so its contents
// stay literal, then bold before italic so ** is not eaten as two *.
func inline(s string) string {
	s = html.EscapeString(s)
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}
