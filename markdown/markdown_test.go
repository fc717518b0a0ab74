package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestHeadings(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"# Title", "<h1>Title</h1>"},
		{"## Section", "<h2>Section</h2>"},
		{"### Sub", "<h3>Sub</h3>"},
	}
	for _, tt := range tests {
		if got := render(tt.in); got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParagraphJoinsLines(t *testing.T) {
	got := render("first line\nsecond line\n\nnext para")
	want := "<p>first line second line</p><p>next para</p>"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestLists(t *testing.T) {
	got := render("- one\n- two\n\n1. first\n2. second")
	want := "<ul><li>one</li><li>two</li></ul><ol><li>first</li><li>second</li></ol>"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestBlockquote(t *testing.T) {
	got := render("> quoted\n> more")
	want := "<blockquote><p>quoted</p><p>more</p></blockquote>"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestFencedCodeEscapes(t *testing.T) {
	got := render("```\nif a < b {\n```")
	if !strings.Contains(got, "<pre><code>") || !strings.Contains(got, "if a &lt; b {") {
		t.Errorf("code block not escaped: %q", got)
	}
}

func TestInlineMarks(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**bold**", "<p><strong>bold</strong></p>"},
		{"*em*", "<p><em>em</em></p>"},
		{"`x < y`", "<p><code>x &lt; y</code></p>"},
		{"[text](https://example.com)", `<p><a href="https://example.com">text</a></p>`},
	}
	for _, tt := range tests {
		if got := render(tt.in); got != tt.want {
			t.Errorf("render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTMLIsEscaped(t *testing.T) {
	got := render("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML leaked through: %q", got)
	}
}
