// Package website serves Alex Kearns' portfolio and blog: portfolio pages,
// articles compiled from MDX files, generated preview images, feeds, and a
// static export of the whole site.
//
// Templates come from the views package by default and can be swapped via
// the ViewFuncs struct; the App owns the handlers, middleware and content.
package website

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexkearns/website/content"
	"github.com/alexkearns/website/markdown"
	"github.com/alexkearns/website/og"
	"github.com/alexkearns/website/portfolio"
	"github.com/alexkearns/website/seo"
)

const ogRoute = seo.ImagePath

// App wires the article cache, portfolio data, preview renderer, handlers
// and middleware together.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Cache     *ArticleCache
	Views     ViewFuncs
	Portfolio *portfolio.Data
	SEO       *seo.Builder
	OG        *og.Renderer
	Logger    *zap.Logger

	ogLimiter    *RateLimiter
	contentFS    fs.FS
	customRoutes []func(*App)
	ready        bool
}

// New creates an App with the given configuration and views. Nil view
// functions fall back to the built-in views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	views.fill()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
		Logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup loads content and portfolio data and registers middleware and
// routes. Start calls it when needed; tests and the exporter call it
// directly. Content errors fail here so a broken article never ships.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}

	a.SEO = seo.NewBuilder(seo.Site{
		BaseURL:     a.Config.BaseURL(),
		Name:        a.Config.Name,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Twitter:     a.Config.Twitter,
	})

	if a.Portfolio == nil {
		var (
			d   *portfolio.Data
			err error
		)
		if a.Config.PortfolioFile != "" {
			d, err = portfolio.LoadFile(a.Config.PortfolioFile)
		} else {
			d, err = portfolio.Default()
		}
		if err != nil {
			return fmt.Errorf("website: load portfolio: %w", err)
		}
		a.Portfolio = d
	}

	if a.OG == nil {
		var opts []og.Option
		if a.Config.OGFont != "" {
			opts = append(opts, og.WithFontFile(a.Config.OGFont))
		}
		if a.Config.OGBackground != "" {
			opts = append(opts, og.WithBackgroundFile(a.Config.OGBackground))
		}
		if a.Config.OGAvatar != "" {
			opts = append(opts, og.WithAvatarFile(a.Config.OGAvatar))
		}
		a.OG = og.NewRenderer(opts...)
	}

	var fsys fs.FS = os.DirFS(a.Config.ContentDir)
	if a.contentFS != nil {
		fsys = a.contentFS
	}
	loader := content.NewLoader(fsys, markdown.NewCompiler(), content.WithRoot(a.Config.ArticlesDir))
	a.Cache = NewArticleCache(loader, a.Config.ContentTTL, a.Logger)
	if err := a.Cache.Reload(ctx); err != nil {
		return fmt.Errorf("website: load articles: %w", err)
	}

	if a.Config.OGRateLimit > 0 {
		a.ogLimiter = NewRateLimiter(a.Config.OGRateLimit, time.Minute)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start sets the app up if needed and serves until ctx is cancelled, then
// shuts down gracefully. With Config.Watch set, article changes on disk
// rebuild the library.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.BaseURL()))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		return a.Echo.Shutdown(sctx)
	})
	if a.Config.Watch && a.contentFS == nil {
		dir := filepath.Join(a.Config.ContentDir, a.Config.ArticlesDir)
		g.Go(func() error {
			err := content.Watch(gctx, dir, a.Config.WatchDebounce, func() {
				if err := a.Cache.Reload(gctx); err != nil {
					a.Logger.Error("article reload failed", zap.Error(err))
					return
				}
				a.Logger.Info("articles reloaded", zap.Int("count", a.Cache.Library(gctx).Len()))
			})
			if err != nil {
				a.Logger.Error("content watcher stopped", zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Built-in assets, overridable from the static directory.
	e.GET("/public/site.css", a.handleAsset("site.css"))
	e.GET("/public/icons.svg", a.handleAsset("icons.svg"))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	var ogMiddleware []echo.MiddlewareFunc
	if a.ogLimiter != nil {
		ogMiddleware = append(ogMiddleware, a.ogLimiter.Middleware())
	}
	e.GET(ogRoute, a.handleOG, ogMiddleware...)

	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/projects/", a.handleProjects)
	e.GET("/speaking/", a.handleSpeaking)
	e.GET("/articles/", a.handleArticles)
	e.GET("/articles/page/:n/", a.handleArticles)
	e.GET("/articles/*", a.handleArticle)
}

// Close releases background resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.ogLimiter != nil {
		a.ogLimiter.Stop()
	}
	return nil
}
