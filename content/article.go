// Package content discovers article files on disk, parses their frontmatter,
// compiles their bodies and indexes the results by slug.
package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexkearns/website/markdown"
)

// DateLayout is the display format for article dates, e.g. "June 30, 2023".
const DateLayout = "January 2, 2006"

var (
	// ErrNotFound is returned when no article matches a slug.
	ErrNotFound = errors.New("content: article not found")
	// ErrMissingField is wrapped by ParseError when required frontmatter is absent.
	ErrMissingField = errors.New("missing required frontmatter field")
	// ErrInvalidDate is wrapped by ParseError when the date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrDuplicateSlug is returned when two files derive the same slug.
	ErrDuplicateSlug = errors.New("content: duplicate slug")
	// ErrReservedSlug is returned when a slug collides with the listing pages.
	ErrReservedSlug = errors.New("content: reserved slug")
)

// ParseError describes a content file that could not be turned into an Article.
type ParseError struct {
	Path  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("content: %s: %s %q", e.Path, e.Err, e.Field)
	}
	return fmt.Sprintf("content: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Article is one compiled content file. Values are never mutated after load.
type Article struct {
	Slug        string
	Title       string
	Author      string
	Description string
	Series      string
	Date        time.Time
	Path        string
	Body        markdown.HTML
}

// URL returns the site-relative route for the article.
func (a Article) URL() string {
	return "/articles/" + a.Slug + "/"
}

// Segments splits the slug into its path segments.
func (a Article) Segments() []string {
	return strings.Split(a.Slug, "/")
}

// DisplayTitle is the title with the series appended, if any.
func (a Article) DisplayTitle() string {
	if a.Series == "" {
		return a.Title
	}
	return a.Title + " (" + a.Series + ")"
}

// FormattedDate renders Date using DateLayout.
func (a Article) FormattedDate() string {
	return a.Date.Format(DateLayout)
}

// ISODate renders Date as YYYY-MM-DD.
func (a Article) ISODate() string {
	return a.Date.Format("2006-01-02")
}

// SortByDate orders articles newest first. Articles sharing a date keep their
// relative order.
func SortByDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date.After(articles[j].Date)
	})
}
