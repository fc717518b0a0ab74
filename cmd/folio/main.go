// Command folio runs a portfolio/blog site with the built-in views.
// All site branding and secrets come from environment variables.
package main

import (
	"log"
	"strings"
	"time"

	"github.com/pmedv/folio"
)

func main() {
	cfg := folio.SiteConfig{
		Name:          folio.EnvOr("SITE_NAME", "Portfolio"),
		URL:           strings.TrimSuffix(folio.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:   folio.EnvOr("SITE_DESCRIPTION", ""),
		Author:        folio.EnvOr("SITE_AUTHOR", ""),
		Addr:          folio.EnvOr("ADDR", ":3000"),
		DatabasePath:  folio.EnvOr("DATABASE_PATH", "data/content.db"),
		CountersPath:  folio.EnvOr("COUNTERS_PATH", "data/counters.db"),
		AdminPassword: folio.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: folio.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(folio.EnvOr("COOKIE_SECURE", ""), "true"),
	}
	if v := folio.EnvOr("CONTENT_CACHE_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid CONTENT_CACHE_TTL: %v", err)
		}
		cfg.ContentCacheTTL = ttl
	}

	app := folio.New(cfg, folio.DefaultViews(cfg))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
