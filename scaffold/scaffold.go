// Package scaffold creates new article files from an embedded template.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Templates contains the scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// ErrExists is returned when the target file is already present.
var ErrExists = errors.New("scaffold: file already exists")

var articleTmpl = template.Must(template.New("article.mdx.tmpl").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).ParseFS(Templates, "templates/article.mdx.tmpl"))

// Article holds the frontmatter for a new article.
type Article struct {
	Title       string
	Slug        string
	Author      string
	Description string
	Series      string
	Date        time.Time
}

// Normalize fills in whatever can be derived: a title from the slug, a slug
// from the title, and today's date.
func (a *Article) Normalize(now time.Time) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Slug = strings.Trim(a.Slug, "/")
	if a.Title == "" && a.Slug == "" {
		return errors.New("scaffold: a title or slug is required")
	}
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Title == "" {
		a.Title = TitleFromSlug(a.Slug)
	}
	if a.Slug == "" {
		return fmt.Errorf("scaffold: cannot derive a slug from %q", a.Title)
	}
	if a.Description == "" {
		a.Description = a.Title
	}
	if a.Date.IsZero() {
		a.Date = now
	}
	return nil
}

// Render executes the article template.
func Render(a Article) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Article
		Date string
	}{a, a.Date.Format("2006-01-02")}
	if err := articleTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("scaffold: render: %w", err)
	}
	return buf.Bytes(), nil
}

// NewArticle writes a new article under dir and returns its path. Nested
// slugs create subdirectories. Existing files are never overwritten.
func NewArticle(dir string, a Article) (string, error) {
	if err := a.Normalize(time.Now().UTC()); err != nil {
		return "", err
	}
	out := filepath.Join(dir, filepath.FromSlash(a.Slug)+".mdx")
	for _, ext := range []string{".mdx", ".md"} {
		p := strings.TrimSuffix(out, ".mdx") + ext
		if _, err := os.Stat(p); err == nil {
			return "", fmt.Errorf("%w: %s", ErrExists, p)
		}
	}
	src, err := Render(a)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, out)
		}
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(src); err != nil {
		return "", fmt.Errorf("scaffold: write %s: %w", out, err)
	}
	return out, nil
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		case r == '/':
			// Keep series directories, e.g. "aws/part 1" -> "aws/part-1".
			out := strings.TrimRight(b.String(), "-")
			b.Reset()
			b.WriteString(out)
			if b.Len() > 0 && !strings.HasSuffix(out, "/") {
				b.WriteByte('/')
			}
			prev = true
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.Trim(b.String(), "-/")
}

// TitleFromSlug turns the last segment of a slug into a title,
// e.g. "aws/getting-started" -> "Getting Started".
func TitleFromSlug(slug string) string {
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	words := strings.ReplaceAll(strings.ReplaceAll(slug, "-", " "), "_", " ")
	return cases.Title(language.BritishEnglish).String(words)
}
