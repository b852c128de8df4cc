package website

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexkearns/website/content"
)

// ArticleCache holds the current article library. Reloads build a complete
// new library and swap it in; readers never see a partial set.
type ArticleCache struct {
	mu      sync.RWMutex
	lib     *content.Library
	fetched time.Time
	ttl     time.Duration
	loader  *content.Loader
	logger  *zap.Logger
	now     func() time.Time
}

// NewArticleCache creates a cache backed by loader. A ttl of zero keeps the
// library until Reload is called.
func NewArticleCache(loader *content.Loader, ttl time.Duration, logger *zap.Logger) *ArticleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleCache{loader: loader, ttl: ttl, logger: logger, now: time.Now}
}

func (c *ArticleCache) stale() bool {
	return c.ttl > 0 && c.now().Sub(c.fetched) >= c.ttl
}

// Reload rebuilds the library from the loader. On failure the previous
// library stays in place and the error is returned.
func (c *ArticleCache) Reload(ctx context.Context) error {
	articles, err := c.loader.LoadAll(ctx)
	if err != nil {
		return err
	}
	lib, err := content.NewLibrary(articles)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lib = lib
	c.fetched = c.now()
	c.mu.Unlock()
	c.logger.Debug("articles loaded", zap.Int("count", lib.Len()))
	return nil
}

// Library returns the current library, reloading first when the TTL has
// expired. A failed TTL reload is logged and the stale library served.
func (c *ArticleCache) Library(ctx context.Context) *content.Library {
	c.mu.RLock()
	lib, stale := c.lib, c.stale()
	c.mu.RUnlock()
	if lib != nil && !stale {
		return lib
	}

	if err := c.Reload(ctx); err != nil {
		c.logger.Error("article reload failed", zap.Error(err))
		c.mu.Lock()
		// The next attempt waits a full TTL.
		c.fetched = c.now()
		c.mu.Unlock()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lib
}

// Lookup returns the article with the given slug.
func (c *ArticleCache) Lookup(ctx context.Context, slug string) (content.Article, error) {
	return c.Library(ctx).Lookup(slug)
}
