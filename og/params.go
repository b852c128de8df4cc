// Package og renders Open Graph preview images for pages and articles.
package og

import (
	"net/url"
	"unicode/utf8"
)

const (
	Width  = 1200
	Height = 630

	// MaxTitleLength is the longest title drawn, in characters.
	MaxTitleLength = 100
	// DefaultTitle is used when a request carries no title at all.
	DefaultTitle = "Alex Kearns"
)

// Params is the text drawn onto one image.
type Params struct {
	Title string
	// Date is drawn below the title whenever HasDate is set, even if empty.
	Date    string
	HasDate bool
}

// ParamsFromQuery reads title and date from a request query. A title key
// that is present but empty yields an empty title; only a missing key falls
// back to defaultTitle.
func ParamsFromQuery(q url.Values, defaultTitle string) Params {
	p := Params{Title: defaultTitle}
	if _, ok := q["title"]; ok {
		p.Title = q.Get("title")
	}
	p.Title = TruncateTitle(p.Title, MaxTitleLength)
	if _, ok := q["date"]; ok {
		p.Date = q.Get("date")
		p.HasDate = true
	}
	return p
}

// TruncateTitle cuts s to at most n characters.
func TruncateTitle(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
