package content

import "strings"

// SubjectType is the top-level content category. It partitions both the
// content collection and the engagement counter namespace: a slug is only
// unique within its subject type.
type SubjectType string

const (
	SubjectBlog     SubjectType = "blog"
	SubjectProjects SubjectType = "projects"
)

// ParseSubjectType matches s against the known subject types,
// case-insensitively. ok is false for anything unrecognized.
func ParseSubjectType(s string) (SubjectType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SubjectBlog):
		return SubjectBlog, true
	case string(SubjectProjects):
		return SubjectProjects, true
	}
	return "", false
}

// Item is one piece of content (an article or a project). Items are authored
// out-of-band; the serving side treats each loaded slice as an immutable
// snapshot for the duration of a request.
type Item struct {
	Slug        string
	Title       string
	Description string
	Tags        []string
	Date        string // "2006-01-02"; empty means not yet scheduled
	Body        string // markdown
	Link        string
	Subject     SubjectType
	Published   bool
}
