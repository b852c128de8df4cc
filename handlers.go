package website

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alexkearns/website/content"
	"github.com/alexkearns/website/og"
	"github.com/alexkearns/website/views"
)

// ogFailure is the body returned when a preview image cannot be produced.
const ogFailure = "Failed to generate the image"

func (a *App) handleHome(c echo.Context) error {
	lib := a.Cache.Library(c.Request().Context())
	d := a.Portfolio
	return Render(c, a.Views.Home(views.HomeData{
		Head:           a.pageHead(c, "home", "/"),
		Page:           d.Page("home"),
		Articles:       lib.Recent(a.Config.HomeArticles),
		Socials:        d.Socials,
		Work:           d.Work,
		Achievements:   d.Achievements,
		Certifications: d.Certifications,
	}))
}

func (a *App) handleAbout(c echo.Context) error {
	d := a.Portfolio
	return Render(c, a.Views.About(views.AboutData{
		Head:    a.pageHead(c, "about", "/about/"),
		Page:    d.Page("about"),
		About:   d.About,
		Socials: d.Socials,
	}))
}

func (a *App) handleProjects(c echo.Context) error {
	d := a.Portfolio
	return Render(c, a.Views.Projects(views.ProjectsData{
		Head:     a.pageHead(c, "projects", "/projects/"),
		Page:     d.Page("projects"),
		Projects: d.Projects,
	}))
}

func (a *App) handleSpeaking(c echo.Context) error {
	d := a.Portfolio
	return Render(c, a.Views.Speaking(views.SpeakingData{
		Head:        a.pageHead(c, "speaking", "/speaking/"),
		Page:        d.Page("speaking"),
		Appearances: d.Speaking(),
	}))
}

// handleArticles serves the article index. The page comes from /articles/page/N/
// or, for older links, ?page=N.
func (a *App) handleArticles(c echo.Context) error {
	raw := c.Param("n")
	if raw == "" {
		raw = c.QueryParam("page")
	}
	page := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.ErrNotFound
		}
		page = n
	}
	listing, ok := a.Cache.Library(c.Request().Context()).Page(page, a.Config.PageSize)
	if !ok {
		return echo.ErrNotFound
	}
	p := a.Portfolio.Page("articles")
	return Render(c, a.Views.Articles(views.ArticlesData{
		Head:    a.head(c, a.SEO.Page("/articles/", p.Title, p.Description)),
		Page:    p,
		Listing: listing,
	}))
}

func (a *App) handleArticle(c echo.Context) error {
	slug := c.Param("*")
	if s, err := url.PathUnescape(slug); err == nil {
		slug = s
	}
	art, err := a.Cache.Lookup(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.notFoundHead(c)))
		}
		return err
	}
	return Render(c, a.Views.Article(views.ArticleData{
		Head:    a.head(c, a.SEO.Article(art), a.SEO.BlogPosting(art)),
		Article: art,
	}))
}

// handleOG renders a preview image from the title and date query parameters.
func (a *App) handleOG(c echo.Context) error {
	p := og.ParamsFromQuery(c.QueryParams(), a.Config.Name)
	var buf bytes.Buffer
	if err := a.OG.RenderPNG(&buf, p); err != nil {
		a.Logger.Error("preview image failed",
			zap.Error(err),
			zap.String("title", p.Title),
		)
		return c.String(http.StatusInternalServerError, ogFailure)
	}
	if bot := crawlerName(c.Request().UserAgent()); bot != "" {
		a.Logger.Debug("preview image fetched", zap.String("crawler", bot), zap.String("title", p.Title))
	}
	c.Response().Header().Set("Cache-Control", "public, immutable, no-transform, max-age=31536000")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Cache.Library(c.Request().Context()))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Library(c.Request().Context()).All())
}

// robotsTxt allows everything and points crawlers at the sitemap.
func (a *App) robotsTxt() string {
	return "User-agent: *\nAllow: /\n\nSitemap: " + a.Config.BaseURL() + "/sitemap.xml\n"
}

func (a *App) handleRobots(c echo.Context) error {
	if p := a.staticFile("robots.txt"); p != "" {
		return c.File(p)
	}
	return c.String(http.StatusOK, a.robotsTxt())
}

func (a *App) handleFavicon(c echo.Context) error {
	if p := a.staticFile("favicon.svg"); p != "" {
		return c.File(p)
	}
	return a.embeddedAsset(c, "favicon.svg")
}

// handleAsset serves a built-in asset unless the static directory overrides it.
func (a *App) handleAsset(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p := a.staticFile(name); p != "" {
			return c.File(p)
		}
		return a.embeddedAsset(c, name)
	}
}

func (a *App) embeddedAsset(c echo.Context, name string) error {
	b, err := fs.ReadFile(EmbeddedAssets, "embedded/"+name)
	if err != nil {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, assetType(name), b)
}

func assetType(name string) string {
	switch filepath.Ext(name) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	}
	return echo.MIMEOctetStream
}

// staticFile returns the path of name in the static directory, or "" when
// it is not there.
func (a *App) staticFile(name string) string {
	p := filepath.Join(a.Config.StaticDir, name)
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p
	}
	return ""
}

func (a *App) notFoundHead(c echo.Context) views.Head {
	return a.head(c, a.SEO.Page(c.Request().URL.Path, "Page not found", ""))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.notFoundHead(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
		)
		h := a.head(c, a.SEO.Page(c.Request().URL.Path, "Server error", ""))
		if rerr := RenderStatus(c, code, a.Views.ServerError(h)); rerr != nil {
			_ = c.String(code, http.StatusText(code))
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
