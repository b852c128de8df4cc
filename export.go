package website

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// notFoundRoute is requested during export to capture the 404 page.
const notFoundRoute = "/404/"

// Routes lists every page the site can serve without a query string, in a
// stable order. Setup must have been called.
func (a *App) Routes(ctx context.Context) []string {
	lib := a.Cache.Library(ctx)
	routes := append([]string(nil), staticRoutes...)
	if first, ok := lib.Page(1, a.Config.PageSize); ok {
		for n := 2; n <= first.TotalPages; n++ {
			routes = append(routes, "/articles/page/"+strconv.Itoa(n)+"/")
		}
	}
	for _, art := range lib.All() {
		routes = append(routes, art.URL())
	}
	return append(routes,
		"/feed.xml",
		"/sitemap.xml",
		"/robots.txt",
		"/favicon.svg",
		"/public/site.css",
		"/public/icons.svg",
	)
}

// Export renders every route into dir as static files, writes the 404 page,
// and copies the static directory to dir/public. It returns the written
// files relative to dir, sorted. Preview images still need the server.
func (a *App) Export(ctx context.Context, dir string) ([]string, error) {
	if err := a.Setup(ctx); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	seen := make(map[string]struct{})
	record := func(rel string) {
		mu.Lock()
		seen[rel] = struct{}{}
		mu.Unlock()
	}

	// Static files first so rendered built-ins win over stale copies.
	copied, err := copyTree(a.Config.StaticDir, filepath.Join(dir, "public"))
	if err != nil {
		return nil, fmt.Errorf("website: copy static files: %w", err)
	}
	for _, rel := range copied {
		record(path.Join("public", rel))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, route := range a.Routes(ctx) {
		g.Go(func() error {
			rel, err := a.exportRoute(gctx, dir, route, http.StatusOK)
			if err != nil {
				return err
			}
			record(rel)
			return nil
		})
	}
	g.Go(func() error {
		if _, err := a.exportRoute(gctx, dir, notFoundRoute, http.StatusNotFound); err != nil {
			return err
		}
		// Most static hosts look for 404.html at the root.
		if err := os.Rename(filepath.Join(dir, "404", "index.html"), filepath.Join(dir, "404.html")); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(dir, "404")); err != nil {
			return err
		}
		record("404.html")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(seen))
	for rel := range seen {
		written = append(written, rel)
	}
	sort.Strings(written)
	a.Logger.Info("site exported", zap.String("dir", dir), zap.Int("files", len(written)))
	return written, nil
}

// exportRoute renders route through the router and writes the response body.
// Routes ending in a slash become index.html files.
func (a *App) exportRoute(ctx context.Context, dir, route string, want int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	req := httptest.NewRequest(http.MethodGet, route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return "", fmt.Errorf("website: export %s: status %d, want %d", route, rec.Code, want)
	}

	rel := strings.TrimPrefix(route, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	out := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(out, rec.Body.Bytes(), 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// copyTree copies regular files from src into dst. A missing src copies
// nothing. Returned paths are slash-separated and relative to dst.
func copyTree(src, dst string) ([]string, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil, nil
	}
	var copied []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if err := copyFile(p, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
