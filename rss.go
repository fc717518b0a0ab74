package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.ListItems(content.SubjectBlog, "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

func (a *App) renderRSS(c echo.Context, articles []content.Item) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	for _, it := range articles {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", it.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		itemURL := BuildURL(base, "blog", it.Slug)
		items = append(items, rssItem{
			Title:       it.Title,
			Link:        itemURL,
			Description: it.Description,
			PubDate:     pubDate,
			GUID:        itemURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
