// Package views renders the site's pages. Each page is an html/template file
// compiled into the binary and exposed as a templ.Component so handlers can
// treat every view alike.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"home.html",
		"about.html",
		"articles.html",
		"article.html",
		"projects.html",
		"speaking.html",
		"error.html",
	} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name,
		))
	}
}

// render executes the named page into a buffer first so that a template error
// never leaves a half-written response.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
			return fmt.Errorf("views: %s: %w", name, err)
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

func Home(d HomeData) templ.Component         { return render("home.html", d) }
func About(d AboutData) templ.Component       { return render("about.html", d) }
func Articles(d ArticlesData) templ.Component { return render("articles.html", d) }
func Article(d ArticleData) templ.Component   { return render("article.html", d) }
func Projects(d ProjectsData) templ.Component { return render("projects.html", d) }
func Speaking(d SpeakingData) templ.Component { return render("speaking.html", d) }

// NotFound renders the 404 page.
func NotFound(h Head) templ.Component {
	return render("error.html", ErrorData{Head: h, Code: 404, Message: "Sorry, we couldn’t find the page you’re looking for."})
}

// ServerError renders the 500 page.
func ServerError(h Head) templ.Component {
	return render("error.html", ErrorData{Head: h, Code: 500, Message: "Something went wrong on our side. Please try again shortly."})
}
