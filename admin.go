package folio

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/engagement"
	"github.com/pmedv/folio/views"
)

const loginWindow = time.Minute

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// renderAdminDashboard shows raw view/like counts per item, drafts included.
// The snapshot goes through the same fail-open read policy as the public
// pages, so the dashboard renders zeros while the counter store is down.
func (a *App) renderAdminDashboard(c echo.Context) error {
	var rows []views.CounterRow
	for _, subject := range []content.SubjectType{content.SubjectBlog, content.SubjectProjects} {
		items, err := a.Content.ListAllItems(subject)
		if err != nil {
			return err
		}
		slugs := make([]string, len(items))
		for i, it := range items {
			slugs[i] = it.Slug
		}
		viewCounts := a.countsOrZero(c, engagement.MetricViews, subject, slugs)
		likeCounts := a.countsOrZero(c, engagement.MetricLikes, subject, slugs)
		for _, it := range items {
			rows = append(rows, views.CounterRow{
				Item:  it,
				Views: viewCounts[it.Slug],
				Likes: likeCounts[it.Slug],
			})
		}
	}
	return Render(c, a.Views.AdminDashboard(rows, CsrfToken(c)))
}
