package website

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexkearns/website/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// buildFeed returns the RSS 2.0 document for articles, newest first.
func (a *App) buildFeed(articles []content.Article) rssXML {
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		link := a.SEO.URL("articles", art.Slug)
		items = append(items, rssItem{
			Title:       art.DisplayTitle(),
			Link:        link,
			Description: art.Description,
			Author:      art.Author,
			Category:    art.Series,
			PubDate:     art.Date.Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	ch := rssChannel{
		Title:       a.Config.Name,
		Link:        a.SEO.URL(),
		Description: a.Config.Description,
		Language:    "en-gb",
		Items:       items,
	}
	if len(articles) > 0 {
		ch.LastBuildDate = articles[0].Date.Format(time.RFC1123Z)
	}
	return rssXML{Version: "2.0", Channel: ch}
}

func (a *App) renderRSS(c echo.Context, articles []content.Article) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", a.buildFeed(articles))
}

func writeXML(c echo.Context, contentType string, v any) error {
	out, err := xml.Marshal(v)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	_, err = c.Response().Write(out)
	return err
}
