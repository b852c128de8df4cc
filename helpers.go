package website

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alexkearns/website/seo"
	"github.com/alexkearns/website/views"
)

// head assembles the shared <head> data for a page.
func (a *App) head(c echo.Context, meta seo.Meta, jsonLD ...string) views.Head {
	return views.Head{
		Meta:     meta,
		JSONLD:   append([]string{a.SEO.WebSite()}, jsonLD...),
		SiteName: a.Config.Name,
		Path:     c.Request().URL.Path,
	}
}

// pageHead builds the head for one of the portfolio pages by name.
func (a *App) pageHead(c echo.Context, name, route string) views.Head {
	p := a.Portfolio.Page(name)
	return a.head(c, a.SEO.Page(route, p.Title, p.Description))
}

// Link preview fetchers, checked in order. Generic markers come last.
var crawlers = []struct{ pattern, name string }{
	{"twitterbot", "Twitterbot"},
	{"facebookexternalhit", "Facebook"},
	{"linkedinbot", "LinkedIn"},
	{"slackbot", "Slack"},
	{"discordbot", "Discord"},
	{"whatsapp", "WhatsApp"},
	{"telegrambot", "Telegram"},
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"crawler", "Generic Crawler"},
	{"spider", "Generic Spider"},
}

// crawlerName names the bot behind a user agent, or returns "" for
// anything that does not look like one.
func crawlerName(ua string) string {
	ua = strings.ToLower(ua)
	for _, c := range crawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	if strings.Contains(ua, "bot") {
		return "Other Bot"
	}
	return ""
}
