// Package seo builds the head metadata (title, canonical URL, Open Graph and
// Twitter cards) for every page of the site.
package seo

import (
	"net/url"
	"path"
	"strings"

	"github.com/alexkearns/website/content"
)

// ImagePath is the route that renders preview images.
const ImagePath = "/api/og"

type OpenGraph struct {
	Title         string
	Description   string
	Image         string
	URL           string
	Type          string
	SiteName      string
	PublishedTime string
}

type Twitter struct {
	Card    string
	Creator string
	Image   string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// Site holds the values shared by every page's metadata.
type Site struct {
	BaseURL     string
	Name        string
	Description string
	Author      string
	// Twitter is the author's handle, without the @.
	Twitter string
}

// Builder derives Meta values from a Site. It holds no mutable state.
type Builder struct {
	site Site
}

// NewBuilder returns a Builder for site. The base URL loses any trailing slash.
func NewBuilder(site Site) *Builder {
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &Builder{site: site}
}

// Site returns the configuration the builder was created with.
func (b *Builder) Site() Site { return b.site }

// Title formats a page title with the site name. An empty title, or one equal
// to the site name, yields the site name alone.
func (b *Builder) Title(title string) string {
	if title == "" || title == b.site.Name {
		return b.site.Name
	}
	return title + " - " + b.site.Name
}

// Page builds metadata for a static page at route.
func (b *Builder) Page(route, title, description string) Meta {
	if description == "" {
		description = b.site.Description
	}
	ogTitle := title
	if ogTitle == "" {
		ogTitle = b.site.Name
	}
	image := b.ImageURL(ogTitle, "")
	canonical := b.URL(route)
	return Meta{
		Title:       b.Title(title),
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       ogTitle,
			Description: description,
			Image:       image,
			URL:         canonical,
			Type:        "website",
			SiteName:    b.site.Name,
		},
		Twitter: b.twitter(image),
	}
}

// Article builds metadata for an article page. The preview image carries the
// series-qualified title and the formatted publish date.
func (b *Builder) Article(a content.Article) Meta {
	image := b.ImageURL(a.DisplayTitle(), a.FormattedDate())
	canonical := b.URL("articles", a.Slug)
	return Meta{
		Title:       b.Title(a.DisplayTitle()),
		Description: a.Description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:         a.Title,
			Description:   a.Description,
			Image:         image,
			URL:           canonical,
			Type:          "article",
			SiteName:      b.site.Name,
			PublishedTime: a.Date.Format("2006-01-02T15:04:05Z07:00"),
		},
		Twitter: b.twitter(image),
	}
}

// ImageURL returns the absolute preview image URL for title and, when not
// empty, date.
func (b *Builder) ImageURL(title, date string) string {
	q := "title=" + url.QueryEscape(title)
	if date != "" {
		q += "&date=" + url.QueryEscape(date)
	}
	return b.site.BaseURL + ImagePath + "?" + q
}

// URL joins segments onto the base URL with a trailing slash.
func (b *Builder) URL(segments ...string) string {
	return BuildURL(b.site.BaseURL, segments...)
}

func (b *Builder) twitter(image string) Twitter {
	t := Twitter{Card: "summary_large_image", Image: image}
	if b.site.Twitter != "" {
		t.Creator = "@" + strings.TrimPrefix(b.site.Twitter, "@")
	}
	return t
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}
