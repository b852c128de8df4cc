package views

import (
	"github.com/alexkearns/website/content"
	"github.com/alexkearns/website/portfolio"
	"github.com/alexkearns/website/seo"
)

// Head carries the per-page metadata rendered into <head> and the navigation.
type Head struct {
	Meta     seo.Meta
	JSONLD   []string
	SiteName string
	// Path is the request route, used to mark the active navigation link.
	Path string
}

type HomeData struct {
	Head
	Page           portfolio.Page
	Articles       []content.Article
	Socials        []portfolio.Social
	Work           []portfolio.Role
	Achievements   []portfolio.Achievement
	Certifications portfolio.Link
}

type AboutData struct {
	Head
	Page    portfolio.Page
	About   portfolio.About
	Socials []portfolio.Social
}

// ArticlesData is one page of the article index.
type ArticlesData struct {
	Head
	Page    portfolio.Page
	Listing content.PageInfo
}

type ArticleData struct {
	Head
	Article content.Article
}

type ProjectsData struct {
	Head
	Page     portfolio.Page
	Projects []portfolio.Project
}

type SpeakingData struct {
	Head
	Page        portfolio.Page
	Appearances []portfolio.Appearance
}

// ErrorData backs the not found and server error pages.
type ErrorData struct {
	Head
	Code    int
	Message string
}
