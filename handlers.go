package folio

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/engagement"
	"github.com/pmedv/folio/views"
)

// snapshotTimeout bounds every counter read performed while rendering a page.
const snapshotTimeout = 2 * time.Second

// countsOrZero fetches a counter snapshot for the given slugs. Reads fail
// open: on any store error (unreachable, timeout) it logs and returns
// all-zero counts so the page still renders. This is the one read-degradation
// policy for the whole site; every read call site goes through here.
func (a *App) countsOrZero(c echo.Context, metric engagement.Metric, subject content.SubjectType, slugs []string) map[string]int64 {
	ctx, cancel := context.WithTimeout(c.Request().Context(), snapshotTimeout)
	defer cancel()
	counts, err := a.Counters.Snapshot(ctx, metric, subject, slugs)
	if err != nil {
		c.Logger().Errorf("counter snapshot %s %s: %v", metric, subject, err)
		counts = make(map[string]int64, len(slugs))
		for _, slug := range slugs {
			counts[slug] = 0
		}
	}
	return counts
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Home())
}

// handleListing serves a blog or projects index: rank the published items by
// the current view-count snapshot, then paginate the remainder.
//
// The blog listing uses the strict ranking variant and fails the render when
// fewer than three items are published; the projects listing tolerates a
// partial set. The ?page= parameter is passed to the pagination engine as-is,
// so a direct out-of-range request gets an empty page whose indicator can
// read past the last page.
func (a *App) handleListing(subject content.SubjectType) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := a.Cache.ListItems(subject, "")
		if err != nil {
			return err
		}
		slugs := make([]string, len(items))
		for i, it := range items {
			slugs[i] = it.Slug
		}

		viewCounts := a.countsOrZero(c, engagement.MetricViews, subject, slugs)
		likeCounts := a.countsOrZero(c, engagement.MetricLikes, subject, slugs)

		var ranked engagement.RankedSet
		if subject == content.SubjectBlog {
			ranked, err = engagement.Rank(items, viewCounts)
			if err != nil {
				return err
			}
		} else {
			ranked = engagement.RankPartial(items, viewCounts)
		}

		number := pageNumber(c.QueryParam("page"))
		page := engagement.Paginate(ranked.Remainder, number)

		return Render(c, a.Views.Listing(views.Listing{
			Subject:   subject,
			Featured:  ranked.Featured,
			RunnerUps: ranked.RunnerUps,
			Page:      page,
			Views:     viewCounts,
			Likes:     likeCounts,
			Prev:      engagement.ClampPage(number-1, page.TotalPages),
			Next:      engagement.ClampPage(number+1, page.TotalPages),
		}))
	}
}

// handleDetail serves a single article or project. The rendered page carries
// the beacon script that reports the view; the server itself does not count
// renders.
func (a *App) handleDetail(subject content.SubjectType) echo.HandlerFunc {
	return func(c echo.Context) error {
		slug := c.Param("slug")
		item, err := a.Cache.GetItem(subject, slug)
		if err != nil {
			if err == content.ErrNotFound {
				return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
			}
			return err
		}
		items, err := a.Cache.ListItems(subject, "")
		if err != nil {
			return err
		}
		return Render(c, a.Views.Detail(item, views.FilterRelated(item, items)))
	}
}

// pageNumber parses ?page=, defaulting to 1 for anything non-numeric.
// Out-of-range values (including negatives) pass through unclamped.
func pageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
