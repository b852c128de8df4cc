package website

import (
	"github.com/a-h/templ"

	"github.com/alexkearns/website/views"
)

// ViewFuncs holds the components the handlers render. Any nil field falls
// back to the built-in view from DefaultViews.
type ViewFuncs struct {
	Home        func(views.HomeData) templ.Component
	About       func(views.AboutData) templ.Component
	Articles    func(views.ArticlesData) templ.Component
	Article     func(views.ArticleData) templ.Component
	Projects    func(views.ProjectsData) templ.Component
	Speaking    func(views.SpeakingData) templ.Component
	NotFound    func(views.Head) templ.Component
	ServerError func(views.Head) templ.Component
}

// DefaultViews returns the site's built-in views.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		About:       views.About,
		Articles:    views.Articles,
		Article:     views.Article,
		Projects:    views.Projects,
		Speaking:    views.Speaking,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

func (v *ViewFuncs) fill() {
	d := DefaultViews()
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.About == nil {
		v.About = d.About
	}
	if v.Articles == nil {
		v.Articles = d.Articles
	}
	if v.Article == nil {
		v.Article = d.Article
	}
	if v.Projects == nil {
		v.Projects = d.Projects
	}
	if v.Speaking == nil {
		v.Speaking = d.Speaking
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}
