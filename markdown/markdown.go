// Package markdown compiles article bodies (Markdown with a small set of MDX
// components) into sanitised HTML that can be rendered as a templ component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DefaultAssetBase is the URL prefix under which per-article images live.
const DefaultAssetBase = "/public/images/articles"

// HTML is compiled, sanitised article markup.
type HTML string

// Component returns a templ.Component that writes the markup unchanged.
func (h HTML) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, string(h))
		return err
	})
}

// Context is handed to MDX components while a body is being expanded.
type Context struct {
	Slug      string
	AssetBase string
}

// ComponentFunc renders one self-closing MDX component tag to raw HTML.
type ComponentFunc func(attrs map[string]string, ctx Context) string

// Compiler turns article sources into HTML. It is safe for concurrent use.
type Compiler struct {
	md         goldmark.Markdown
	policy     *bluemonday.Policy
	components map[string]ComponentFunc
	assetBase  string
	style      string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithComponent registers (or replaces) an MDX component by tag name.
func WithComponent(name string, fn ComponentFunc) Option {
	return func(c *Compiler) {
		c.components[name] = fn
	}
}

// WithAssetBase sets the URL prefix for article-relative image paths.
func WithAssetBase(base string) Option {
	return func(c *Compiler) {
		c.assetBase = strings.TrimRight(base, "/")
	}
}

// WithHighlightStyle selects the chroma style used for fenced code.
func WithHighlightStyle(style string) Option {
	return func(c *Compiler) {
		c.style = style
	}
}

// NewCompiler builds a Compiler with GFM, heading IDs, syntax highlighting and
// the built-in Image component.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		components: map[string]ComponentFunc{
			"Image": imageComponent,
		},
		assetBase: DefaultAssetBase,
		style:     "dracula",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(highlighting.WithStyle(c.style)),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// Raw HTML is allowed through goldmark and cleaned by the policy below.
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	c.policy = newArticlePolicy()
	return c
}

// Compile expands MDX components in src, converts the result to HTML and
// sanitises it. slug scopes relative asset paths.
func (c *Compiler) Compile(slug string, src []byte) (HTML, error) {
	expanded := c.expand(src, Context{Slug: slug, AssetBase: c.assetBase})
	var buf bytes.Buffer
	if err := c.md.Convert(expanded, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return HTML(c.policy.SanitizeBytes(buf.Bytes())), nil
}

func newArticlePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "pre", "code", "span", "div")
	policy.AllowAttrs("style").OnElements("pre", "code", "span")
	policy.AllowAttrs("loading", "decoding").OnElements("img")
	policy.RequireNoFollowOnLinks(false)
	return policy
}

func imageComponent(attrs map[string]string, ctx Context) string {
	src := strings.TrimSpace(attrs["src"])
	if src == "" {
		return ""
	}
	if !strings.HasPrefix(src, "/") && !strings.Contains(src, ":") {
		src = path.Join(ctx.AssetBase, ctx.Slug, src)
	}
	src = SafeURL(src)
	if src == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<figure class="article-image"><img src="`)
	b.WriteString(src)
	b.WriteString(`" alt="`)
	b.WriteString(html.EscapeString(attrs["alt"]))
	b.WriteString(`"`)
	for _, dim := range []string{"width", "height"} {
		if v := attrs[dim]; v != "" && isDigits(v) {
			b.WriteString(" " + dim + `="` + v + `"`)
		}
	}
	b.WriteString(` loading="lazy" decoding="async"/>`)
	if caption := attrs["caption"]; caption != "" {
		b.WriteString("<figcaption>")
		b.WriteString(html.EscapeString(caption))
		b.WriteString("</figcaption>")
	}
	b.WriteString("</figure>")
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths and http(s), mailto and tel URLs pass; everything else is
// rejected with an empty string.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
