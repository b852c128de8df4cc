package views

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/alexkearns/website/markdown"
)

type navItem struct {
	Label string
	Href  string
}

var navigation = []navItem{
	{"About", "/about/"},
	{"Articles", "/articles/"},
	{"Projects", "/projects/"},
	{"Speaking", "/speaking/"},
}

// isActive reports whether href is the current section of path.
func isActive(path, href string) bool {
	if href == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, href) || path+"/" == href
}

func navClass(path, href string) string {
	if isActive(path, href) {
		return "nav-link nav-link-active"
	}
	return "nav-link"
}

func rawHTML(h markdown.HTML) template.HTML {
	return template.HTML(h)
}

func jsonLD(s string) template.JS {
	return template.JS(s)
}

// pageURL links to page n of the article index.
func pageURL(n int) string {
	if n <= 1 {
		return "/articles/"
	}
	return "/articles/page/" + strconv.Itoa(n) + "/"
}

// socialIcon maps a social network name to its sprite id.
func socialIcon(name string) string {
	switch strings.ToLower(name) {
	case "twitter", "instagram", "github", "linkedin", "mail", "globe":
		return "icon-" + strings.ToLower(name)
	}
	return "icon-link"
}

var funcs = template.FuncMap{
	"navClass":   navClass,
	"rawHTML":    rawHTML,
	"jsonLD":     jsonLD,
	"pageURL":    pageURL,
	"socialIcon": socialIcon,
	"navigation": func() []navItem { return navigation },
	"add":        func(a, b int) int { return a + b },
}
