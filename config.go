package website

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/alexkearns/website/og"
	"github.com/alexkearns/website/portfolio"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Alex Kearns")
	URL         string `mapstructure:"url"`         // Canonical URL (SITE_URL)
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Default author for feeds and JSON-LD
	Twitter     string `mapstructure:"twitter"`     // Twitter handle for cards

	// Preview deployments override URL with https://<DeployURL> whenever
	// DeployEnv is set to anything but "production".
	DeployEnv string `mapstructure:"deploy_env"` // VERCEL_ENV or DEPLOY_ENV
	DeployURL string `mapstructure:"deploy_url"` // VERCEL_URL or DEPLOY_URL

	Addr          string `mapstructure:"addr"`           // Listen address (default ":3000")
	ContentDir    string `mapstructure:"content_dir"`    // Content root (default "content")
	ArticlesDir   string `mapstructure:"articles_dir"`   // Articles, relative to ContentDir (default "articles")
	StaticDir     string `mapstructure:"static_dir"`     // Static assets served under /public (default "public")
	PortfolioFile string `mapstructure:"portfolio_file"` // Optional YAML replacing the built-in portfolio data

	PageSize     int `mapstructure:"page_size"`     // Articles per index page (default 10)
	HomeArticles int `mapstructure:"home_articles"` // Recent articles on the home page (default 4)

	ContentTTL    time.Duration `mapstructure:"content_ttl"`    // Reload content after this long; 0 never
	Watch         bool          `mapstructure:"watch"`          // Reload content when files change
	WatchDebounce time.Duration `mapstructure:"watch_debounce"` // default 300ms

	OGFont       string `mapstructure:"og_font"`       // TTF/OTF for preview images (default Go Medium)
	OGBackground string `mapstructure:"og_background"` // Background image; a gradient when empty
	OGAvatar     string `mapstructure:"og_avatar"`     // Avatar image; omitted when empty
	OGRateLimit  int    `mapstructure:"og_rate_limit"` // Image requests per IP per minute; 0 disables

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // default 10s
	Debug           bool          `mapstructure:"debug"`            // Mount /debug/pprof
}

const (
	defaultName        = "Alex Kearns"
	defaultURL         = "http://localhost:3000"
	defaultDescription = "My ramblings, mostly about using serverless in AWS"
)

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ArticlesDir == "" {
		c.ArticlesDir = "articles"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PageSize <= 0 {
		c.PageSize = 10
	}
	if c.HomeArticles <= 0 {
		c.HomeArticles = 4
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = 300 * time.Millisecond
	}
	if c.OGRateLimit < 0 {
		c.OGRateLimit = 0
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// BaseURL is the absolute site URL after preview-deployment resolution.
func (c SiteConfig) BaseURL() string {
	return ResolveBaseURL(c.URL, c.DeployEnv, c.DeployURL)
}

// ResolveBaseURL picks the site URL for the current deployment. A non-empty
// deployEnv other than "production" switches to the deployment's own URL,
// assumed to be https when it carries no scheme. The result has no trailing
// slash.
func ResolveBaseURL(siteURL, deployEnv, deployURL string) string {
	base := strings.TrimSpace(siteURL)
	env := strings.TrimSpace(deployEnv)
	host := strings.TrimSpace(deployURL)
	if env != "" && env != "production" && host != "" {
		base = host
		if !strings.Contains(base, "://") {
			base = "https://" + base
		}
	}
	return strings.TrimRight(base, "/")
}

// LoadConfig reads configuration from an optional YAML file and the
// environment. An explicit path must exist; otherwise ./website.yaml is used
// when present. Environment variables use the SITE_ prefix (SITE_URL,
// SITE_CONTENT_DIR, ...), with VERCEL_* and DEPLOY_* for deployment
// detection.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()

	var defaults SiteConfig
	defaults.setDefaults()
	v.SetDefault("name", defaults.Name)
	v.SetDefault("url", defaults.URL)
	v.SetDefault("description", defaults.Description)
	v.SetDefault("author", "")
	v.SetDefault("twitter", "")
	v.SetDefault("deploy_env", "")
	v.SetDefault("deploy_url", "")
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("content_dir", defaults.ContentDir)
	v.SetDefault("articles_dir", defaults.ArticlesDir)
	v.SetDefault("static_dir", defaults.StaticDir)
	v.SetDefault("portfolio_file", "")
	v.SetDefault("page_size", defaults.PageSize)
	v.SetDefault("home_articles", defaults.HomeArticles)
	v.SetDefault("content_ttl", time.Duration(0))
	v.SetDefault("watch", false)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)
	v.SetDefault("og_font", "")
	v.SetDefault("og_background", "")
	v.SetDefault("og_avatar", "")
	v.SetDefault("og_rate_limit", 60)
	v.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("url", "SITE_URL", "NEXT_PUBLIC_SITE_URL")
	_ = v.BindEnv("deploy_env", "VERCEL_ENV", "DEPLOY_ENV")
	_ = v.BindEnv("deploy_url", "VERCEL_URL", "DEPLOY_URL")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("website")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("website: read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("website: decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are in place.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithContentFS reads articles from fsys instead of Config.ContentDir.
// File watching is disabled for such sources.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithPortfolio replaces the portfolio data.
func WithPortfolio(d *portfolio.Data) Option {
	return func(a *App) {
		a.Portfolio = d
	}
}

// WithRenderer replaces the preview image renderer.
func WithRenderer(r *og.Renderer) Option {
	return func(a *App) {
		a.OG = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}
