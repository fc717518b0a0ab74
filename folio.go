// Package folio is a personal portfolio/blog engine built with Go, Echo, and
// templ. Content (articles and projects) is authored out-of-band and served
// read-only; folio adds the engagement layer on top: per-slug view/like
// counters, view-count-driven featured selection, and paginated listings.
//
// Users may provide their own templ components via the ViewFuncs struct;
// DefaultViews returns a plain built-in set.
package folio

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/engagement"
	"github.com/pmedv/folio/views"
)

// ViewFuncs holds the templ components folio calls when rendering pages.
// This is the inversion-of-control mechanism that lets users own all markup.
type ViewFuncs struct {
	Home           func() templ.Component
	Listing        func(l views.Listing) templ.Component
	Detail         func(it content.Item, related []content.Item) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(rows []views.CounterRow, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// DefaultViews returns ViewFuncs backed by the built-in components.
func DefaultViews(cfg SiteConfig) ViewFuncs {
	vc := cfg.viewConfig()
	return ViewFuncs{
		Home:    func() templ.Component { return views.Home(vc) },
		Listing: func(l views.Listing) templ.Component { return views.ListingPage(vc, l) },
		Detail: func(it content.Item, related []content.Item) templ.Component {
			return views.Detail(vc, it, related)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return views.AdminLogin(vc, showError, csrfToken)
		},
		AdminDashboard: func(rows []views.CounterRow, csrfToken string) templ.Component {
			return views.AdminDashboard(vc, rows, csrfToken)
		},
		NotFound:    func() templ.Component { return views.NotFound(vc) },
		ServerError: func() templ.Component { return views.ServerError(vc) },
	}
}

// App is the central folio application. It wires together the content store,
// snapshot cache, counter store, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Content  *content.Store
	Cache    *content.Cache
	Counters *engagement.CounterStore
	Views    ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the databases, cache, middleware, routes, and starts the
// server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("folio: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := content.NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init content store: %w", err)
	}
	a.Content = store
	a.Cache = content.NewCache(store, a.Config.ContentCacheTTL)

	counters, err := engagement.NewCounterStore(a.Config.CountersPath)
	if err != nil {
		return fmt.Errorf("folio: init counter store: %w", err)
	}
	a.Counters = counters

	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework asset (engage.js), falling through to the user's
	// static dir for everything else under /public/.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/engage.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleListing(content.SubjectBlog))
	e.GET("/blog/:slug/", a.handleDetail(content.SubjectBlog))
	e.GET("/projects/", a.handleListing(content.SubjectProjects))
	e.GET("/projects/:slug/", a.handleDetail(content.SubjectProjects))

	e.GET("/covers/:subject/:file", a.handleCover)

	// Counter write endpoints.
	engagement.NewHandler(a.Counters).RegisterRoutes(e)

	// Admin counters dashboard.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Content != nil {
		a.Content.Close()
	}
	if a.Counters != nil {
		a.Counters.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits
// if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
