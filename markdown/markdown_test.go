package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func compile(t *testing.T, slug, src string) string {
	t.Helper()
	got, err := NewCompiler().Compile(slug, []byte(src))
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", src, err)
	}
	return string(got)
}

func TestCompileHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := compile(t, "post", tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Compile(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestCompileInlineFormatting(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
	}
	for _, tt := range tests {
		got := compile(t, "post", tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Compile(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestCompileCodeBlockIsHighlighted(t *testing.T) {
	got := compile(t, "post", "```go\nfmt.Println(\"hello\")\n```")
	if !strings.Contains(got, "<pre") {
		t.Errorf("code block should render a <pre>: %q", got)
	}
	if !strings.Contains(got, "Println") {
		t.Errorf("code block lost its content: %q", got)
	}
}

func TestCompileLinkWithUnderscoresInURL(t *testing.T) {
	got := compile(t, "post", "[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)")
	if !strings.Contains(got, `href="https://en.wikipedia.org/wiki/Some_Article_Title"`) {
		t.Errorf("link href mangled: %q", got)
	}
}

func TestCompileStripsScripts(t *testing.T) {
	got := compile(t, "post", "hello\n\n<script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>")
	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived sanitising: %q", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript URL survived sanitising: %q", got)
	}
}

func TestCompileDropsESMLines(t *testing.T) {
	src := "import Chart from '../components/Chart'\nexport const meta = {}\n\nBody text."
	got := compile(t, "post", src)
	if strings.Contains(got, "import") || strings.Contains(got, "export") {
		t.Errorf("MDX import/export leaked into output: %q", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("body missing: %q", got)
	}
}

func TestCompileKeepsProseStartingWithImportOrExport(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Some text\n\nimport things from the shop is fun.\n", "import things from the shop is fun."},
		{"export your data first, then delete the stack.", "export your data first"},
		// Mid-paragraph lines are prose even when they parse as ESM.
		{"Intro line\nimport Chart from './chart'\n", "import Chart from"},
	}
	for _, tt := range tests {
		got := compile(t, "post", tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Compile(%q) = %q, want it to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestCompileDropsMultiLineExport(t *testing.T) {
	src := "export const meta = {\n  title: 'x',\n}\n\nBody text."
	got := compile(t, "post", src)
	if strings.Contains(got, "meta") || strings.Contains(got, "title:") {
		t.Errorf("export body leaked into output: %q", got)
	}
	if !strings.Contains(got, "Body text.") {
		t.Errorf("body missing: %q", got)
	}
}

func TestCompileLeavesComponentsInInlineCode(t *testing.T) {
	for _, src := range []string{
		"Use `<Image src=\"a.png\" />` in your MDX.",
		"Use ``<Image src=\"a.png\" />`` in your MDX.",
	} {
		got := compile(t, "post", src)
		if strings.Contains(got, "<figure") || strings.Contains(got, "<img") {
			t.Errorf("Compile(%q) expanded a component inside code: %q", src, got)
		}
		if !strings.Contains(got, "<code>&lt;Image src=") || !strings.Contains(got, "/&gt;</code> in your MDX.</p>") {
			t.Errorf("Compile(%q) = %q, want the tag as literal code", src, got)
		}
	}

	got := compile(t, "post", "Use `<Tweet id=\"1\" />` to embed.")
	if !strings.Contains(got, "<code>&lt;Tweet id=") {
		t.Errorf("unknown component inside code was removed: %q", got)
	}
}

func TestCompileExpandsComponentAfterUnmatchedBacktick(t *testing.T) {
	got := compile(t, "post", "A stray ` tick\n\n<Image src=\"a.png\" alt=\"A\" />")
	if !strings.Contains(got, "<figure") {
		t.Errorf("component after unmatched backtick not expanded: %q", got)
	}
}

func TestCompileImageComponentRelative(t *testing.T) {
	got := compile(t, "serverless/intro", `Before

<Image src="diagram.png" alt="Architecture diagram" width={800} />

After`)
	if !strings.Contains(got, `src="/public/images/articles/serverless/intro/diagram.png"`) {
		t.Errorf("relative image not scoped to article: %q", got)
	}
	if !strings.Contains(got, `alt="Architecture diagram"`) {
		t.Errorf("alt text missing: %q", got)
	}
	if !strings.Contains(got, `width="800"`) {
		t.Errorf("numeric JSX attribute missing: %q", got)
	}
	if !strings.Contains(got, "<figure") {
		t.Errorf("image should be wrapped in a figure: %q", got)
	}
}

func TestCompileImageComponentAbsolute(t *testing.T) {
	got := compile(t, "post", `<Image src="https://cdn.example.com/a.png" alt="A" />`)
	if !strings.Contains(got, `src="https://cdn.example.com/a.png"`) {
		t.Errorf("absolute image src rewritten: %q", got)
	}
}

func TestCompileImageComponentRejectsUnsafeScheme(t *testing.T) {
	got := compile(t, "post", `<Image src="javascript:alert(1)" alt="x" />`)
	if strings.Contains(got, "<img") {
		t.Errorf("unsafe image should be dropped: %q", got)
	}
}

func TestCompileUnknownComponentDropped(t *testing.T) {
	got := compile(t, "post", "Text\n\n<Tweet id=\"123\" />\n\nMore")
	if strings.Contains(got, "Tweet") {
		t.Errorf("unknown component leaked: %q", got)
	}
	if !strings.Contains(got, "More") {
		t.Errorf("surrounding text lost: %q", got)
	}
}

func TestCompileLeavesComponentsInCodeFences(t *testing.T) {
	got := compile(t, "post", "```jsx\n<Image src=\"a.png\" />\nimport x from 'y'\n```")
	if strings.Contains(got, "<figure") {
		t.Errorf("component inside code fence was expanded: %q", got)
	}
	if !strings.Contains(got, "import") {
		t.Errorf("import inside code fence was stripped: %q", got)
	}
}

func TestCompileCustomComponent(t *testing.T) {
	c := NewCompiler(WithComponent("Callout", func(attrs map[string]string, ctx Context) string {
		return `<div class="callout">` + attrs["text"] + `</div>`
	}))
	got, err := c.Compile("post", []byte(`<Callout text="Heads up" />`))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !strings.Contains(string(got), `<div class="callout">Heads up</div>`) {
		t.Errorf("custom component not rendered: %q", got)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	src := []byte("# Title\n\nSome *text*.\n\n```go\nx := 1\n```")
	c := NewCompiler()
	a, err := c.Compile("post", src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Compile("post", src)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("compiling the same source twice differs:\n%s\n%s", a, b)
	}
}

func TestHTMLComponentWritesMarkup(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML("<p>hi</p>").Component().Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<p>hi</p>" {
		t.Errorf("Component rendered %q", buf.String())
	}
}

func TestParseAttrs(t *testing.T) {
	got := parseAttrs(` src="a.png" alt='Chart' width={640} caption={"A caption"} priority fn={() => 1}`)
	if got["src"] != "a.png" {
		t.Errorf("src = %q", got["src"])
	}
	if got["alt"] != "Chart" {
		t.Errorf("alt = %q", got["alt"])
	}
	if got["width"] != "640" {
		t.Errorf("width = %q", got["width"])
	}
	if got["caption"] != "A caption" {
		t.Errorf("caption = %q", got["caption"])
	}
	if got["priority"] != "true" {
		t.Errorf("priority = %q", got["priority"])
	}
	if _, ok := got["fn"]; ok {
		t.Errorf("function expression should be ignored, got %q", got["fn"])
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/images/a.png", "/images/a.png"},
		{"#anchor", "#anchor"},
		{"https://example.com", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html;base64,xx", ""},
		{"relative/path", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
