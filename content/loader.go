package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/sync/errgroup"

	"github.com/alexkearns/website/markdown"
)

// DefaultRoot is the directory under the content root that holds articles.
const DefaultRoot = "articles"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Series      string `yaml:"series"`
}

// Loader reads article files from a filesystem.
type Loader struct {
	fsys        fs.FS
	root        string
	compiler    *markdown.Compiler
	concurrency int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRoot sets the directory (relative to fsys) that holds articles.
func WithRoot(root string) LoaderOption {
	return func(l *Loader) {
		l.root = strings.Trim(root, "/")
	}
}

// WithConcurrency bounds how many files are compiled at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a Loader over fsys. A nil compiler gets the default one.
func NewLoader(fsys fs.FS, compiler *markdown.Compiler, opts ...LoaderOption) *Loader {
	if compiler == nil {
		compiler = markdown.NewCompiler()
	}
	l := &Loader{
		fsys:        fsys,
		root:        DefaultRoot,
		compiler:    compiler,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Files lists article paths under the root in lexical order.
func (l *Loader) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if isArticleExt(path.Ext(p)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: list %s: %w", l.root, err)
	}
	return files, nil
}

// LoadAll parses and compiles every article, returning them newest first.
// Any failing file fails the whole load.
func (l *Loader) LoadAll(ctx context.Context) ([]Article, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	articles := make([]Article, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, p := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := l.LoadFile(p)
			if err != nil {
				return err
			}
			articles[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	SortByDate(articles)
	return articles, nil
}

// LoadFile reads and parses a single article at p (relative to fsys).
func (l *Loader) LoadFile(p string) (Article, error) {
	src, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Article{}, fmt.Errorf("content: read %s: %w", p, err)
	}
	return l.Parse(p, src)
}

// Parse builds an Article from the raw file contents of p.
func (l *Loader) Parse(p string, src []byte) (Article, error) {
	slug, err := DeriveSlug(p, l.root)
	if err != nil {
		return Article{}, err
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return Article{}, &ParseError{Path: p, Err: err}
	}
	if err := fm.validate(p); err != nil {
		return Article{}, err
	}
	date, err := parseDate(fm.Date)
	if err != nil {
		return Article{}, &ParseError{Path: p, Field: "date", Err: ErrInvalidDate}
	}
	html, err := l.compiler.Compile(slug, body)
	if err != nil {
		return Article{}, &ParseError{Path: p, Err: err}
	}
	return Article{
		Slug:        slug,
		Title:       strings.TrimSpace(fm.Title),
		Author:      strings.TrimSpace(fm.Author),
		Description: strings.TrimSpace(fm.Description),
		Series:      strings.TrimSpace(fm.Series),
		Date:        date,
		Path:        p,
		Body:        html,
	}, nil
}

func (fm frontMatter) validate(p string) error {
	required := []struct {
		name  string
		value string
	}{
		{"title", fm.Title},
		{"author", fm.Author},
		{"description", fm.Description},
		{"date", fm.Date},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ParseError{Path: p, Field: f.name, Err: ErrMissingField}
		}
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
