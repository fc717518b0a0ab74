// Package views provides the default templ components for a folio site.
// Components are handwritten ComponentFuncs building small HTML documents;
// sites wanting their own look supply their own ViewFuncs instead.
package views

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/markdown"
)

func component(build func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		build(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeHead(buf *bytes.Buffer, cfg SiteConfig, title string) {
	buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
	fmt.Fprintf(buf, "<title>%s — %s</title>", html.EscapeString(title), html.EscapeString(cfg.Name))
	buf.WriteString("<link rel=\"stylesheet\" href=\"/public/site.css\"></head><body>")
	writeNav(buf)
}

func writeNav(buf *bytes.Buffer) {
	buf.WriteString(`<nav><a href="/">Home</a> <a href="/blog/">Blog</a> <a href="/projects/">Projects</a></nav>`)
}

func writeFoot(buf *bytes.Buffer, cfg SiteConfig) {
	if cfg.Author != "" {
		fmt.Fprintf(buf, "<footer><p>Made by %s</p></footer>", html.EscapeString(cfg.Author))
	}
	buf.WriteString("</body></html>")
}

func writeCard(buf *bytes.Buffer, it content.Item, views int64) {
	buf.WriteString(`<article class="card">`)
	fmt.Fprintf(buf, `<div class="meta"><time>%s</time> <span class="views">%s views</span></div>`,
		html.EscapeString(FormatDate(it.Date)), CompactCount(views))
	fmt.Fprintf(buf, `<h2><a href="%s">%s</a></h2>`, it.Link, html.EscapeString(it.Title))
	fmt.Fprintf(buf, `<p>%s</p>`, html.EscapeString(it.Description))
	if len(it.Tags) > 0 {
		buf.WriteString(`<ul class="tags">`)
		for _, t := range it.Tags {
			fmt.Fprintf(buf, "<li>%s</li>", html.EscapeString(t))
		}
		buf.WriteString("</ul>")
	}
	buf.WriteString("</article>")
}

// Home renders the landing page.
func Home(cfg SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, "Home")
		fmt.Fprintf(buf, "<header><h1>%s</h1><p>%s</p></header>",
			html.EscapeString(cfg.Name), html.EscapeString(cfg.Description))
		writeFoot(buf, cfg)
	})
}

// ListingPage renders a blog or projects index: featured card, runner-ups,
// then one page of the remainder with prev/next navigation.
func ListingPage(cfg SiteConfig, l Listing) templ.Component {
	return component(func(buf *bytes.Buffer) {
		title := "Blog"
		if l.Subject == content.SubjectProjects {
			title = "Projects"
		}
		writeHead(buf, cfg, title)
		fmt.Fprintf(buf, "<h1>%s</h1>", title)

		buf.WriteString(`<section class="featured">`)
		if l.Featured != nil {
			writeCard(buf, *l.Featured, l.Views[l.Featured.Slug])
		}
		for _, ru := range l.RunnerUps {
			if ru == nil {
				continue
			}
			writeCard(buf, *ru, l.Views[ru.Slug])
		}
		buf.WriteString("</section>")

		buf.WriteString(`<section class="grid">`)
		for _, it := range l.Page.Items {
			writeCard(buf, it, l.Views[it.Slug])
		}
		buf.WriteString("</section>")

		if l.Page.TotalPages > 1 {
			fmt.Fprintf(buf,
				`<nav class="pager"><a href="/%[1]s/?page=%[2]d">Previous</a> <span>Page %[3]d of %[4]d</span> <a href="/%[1]s/?page=%[5]d">Next</a></nav>`,
				string(l.Subject), l.Prev, l.Page.Number, l.Page.TotalPages, l.Next)
		}
		writeFoot(buf, cfg)
	})
}

// Detail renders one article or project, its markdown body, and the beacon
// script that reports the view.
func Detail(cfg SiteConfig, it content.Item, related []content.Item) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, it.Title)
		fmt.Fprintf(buf, `<article><header><h1>%s</h1><time>%s</time></header>`,
			html.EscapeString(it.Title), html.EscapeString(FormatDate(it.Date)))
		markdown.RenderMarkdown(buf, it.Body)
		buf.WriteString("</article>")
		if len(related) > 0 {
			buf.WriteString(`<aside class="related"><h2>Related</h2><ul>`)
			for _, r := range related {
				fmt.Fprintf(buf, `<li><a href="%s">%s</a></li>`, r.Link, html.EscapeString(r.Title))
			}
			buf.WriteString("</ul></aside>")
		}
		fmt.Fprintf(buf, `<button class="like" data-slug="%s" data-type="%s">Like</button>`,
			html.EscapeString(it.Slug), string(it.Subject))
		fmt.Fprintf(buf, `<script src="/public/engage.js" data-slug="%s" data-type="%s" defer></script>`,
			html.EscapeString(it.Slug), string(it.Subject))
		writeFoot(buf, cfg)
	})
}

// AdminLogin renders the admin password form.
func AdminLogin(cfg SiteConfig, showError bool, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, "Admin")
		buf.WriteString("<h1>Admin</h1>")
		if showError {
			buf.WriteString(`<p class="error">Wrong password.</p>`)
		}
		fmt.Fprintf(buf, `<form method="post" action="/admin/login/"><input type="hidden" name="_csrf" value="%s">`,
			html.EscapeString(csrfToken))
		buf.WriteString(`<input type="password" name="password" autofocus><button type="submit">Log in</button></form>`)
		writeFoot(buf, cfg)
	})
}

// AdminDashboard renders the raw counters table, one row per item.
func AdminDashboard(cfg SiteConfig, rows []CounterRow, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, "Counters")
		buf.WriteString("<h1>Counters</h1>")
		buf.WriteString("<table><thead><tr><th>Item</th><th>Views</th><th>Likes</th></tr></thead><tbody>")
		for _, row := range rows {
			fmt.Fprintf(buf, `<tr><td><a href="%s">%s / %s</a></td><td>%d</td><td>%d</td></tr>`,
				row.Item.Link, string(row.Item.Subject), html.EscapeString(row.Item.Slug), row.Views, row.Likes)
		}
		buf.WriteString("</tbody></table>")
		fmt.Fprintf(buf, `<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s"><button type="submit">Log out</button></form>`,
			html.EscapeString(csrfToken))
		writeFoot(buf, cfg)
	})
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, "Not found")
		buf.WriteString(`<h1>404</h1><p>Nothing here. <a href="/">Back home</a>.</p>`)
		writeFoot(buf, cfg)
	})
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return component(func(buf *bytes.Buffer) {
		writeHead(buf, cfg, "Server error")
		buf.WriteString(`<h1>500</h1><p>Something broke. Try again in a minute.</p>`)
		writeFoot(buf, cfg)
	})
}
