package views

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pmedv/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CompactCount formats a count the way listing cards show it: 999 stays
// as-is, larger values collapse to one decimal with a K/M suffix.
func CompactCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	}
	return fmt.Sprintf("%d", n)
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// FormatDate renders a "2006-01-02" date for display. Items with no date are
// not yet scheduled and show as SOON.
func FormatDate(date string) string {
	if date == "" {
		return "SOON"
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// FilterRelated returns items that share at least one tag with the current
// item, for the "read more" strip on detail pages.
func FilterRelated(current content.Item, items []content.Item) []content.Item {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.Item
	for _, it := range items {
		if it.Slug == current.Slug {
			continue
		}
		for _, t := range it.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, it)
				break
			}
		}
	}
	return related
}

// PathEscape wraps url.PathEscape for use in component code.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
