package website

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/alexkearns/website/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticRoutes are the pages that exist regardless of content.
var staticRoutes = []string{"/", "/about/", "/articles/", "/projects/", "/speaking/"}

func (a *App) buildSitemap(lib *content.Library) sitemapURLSet {
	urls := make([]sitemapURL, 0, len(staticRoutes)+lib.Len())
	for _, route := range staticRoutes {
		urls = append(urls, sitemapURL{Loc: a.SEO.URL(route)})
	}
	for _, art := range lib.All() {
		urls = append(urls, sitemapURL{
			Loc:     a.SEO.URL("articles", art.Slug),
			LastMod: art.ISODate(),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, lib *content.Library) error {
	return writeXML(c, "application/xml; charset=utf-8", a.buildSitemap(lib))
}
