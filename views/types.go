package views

import (
	"github.com/pmedv/folio/content"
	"github.com/pmedv/folio/engagement"
)

// SiteConfig holds site-wide settings templates read. Populated from
// environment variables by the caller so nothing is hardcoded.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// Listing is everything a list page renders: the ranked split, one page of
// the remainder, and the counter snapshot the split was derived from.
type Listing struct {
	Subject   content.SubjectType
	Featured  *content.Item
	RunnerUps []*content.Item
	Page      engagement.Page
	Views     map[string]int64
	Likes     map[string]int64
	// Prev and Next are clamped into [1, TotalPages] for nav links;
	// Page.Number itself is the raw requested number.
	Prev int
	Next int
}

// CounterRow is one line of the admin counters dashboard.
type CounterRow struct {
	Item  content.Item
	Views int64
	Likes int64
}
