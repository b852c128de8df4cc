package seo

import (
	"encoding/json"

	"github.com/alexkearns/website/content"
)

// JSON marshals v to a compact JSON string. It returns "{}" on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (b *Builder) person() map[string]string {
	return map[string]string{
		"@type": "Person",
		"name":  b.site.Author,
	}
}

// WebSite returns a schema.org WebSite payload.
func (b *Builder) WebSite() string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        b.site.Name,
		"url":         b.URL(),
		"description": b.site.Description,
	}
	if b.site.Author != "" {
		data["author"] = b.person()
	}
	return JSON(data)
}

// BlogPosting returns a schema.org BlogPosting payload for a.
func (b *Builder) BlogPosting(a content.Article) string {
	postURL := b.URL("articles", a.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      a.DisplayTitle(),
		"description":   a.Description,
		"datePublished": a.ISODate(),
		"url":           postURL,
		"image":         b.ImageURL(a.DisplayTitle(), a.FormattedDate()),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if a.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  a.Author,
		}
	}
	if b.site.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  b.site.Name,
		}
	}
	if a.Series != "" {
		data["isPartOf"] = map[string]string{
			"@type": "CreativeWorkSeries",
			"name":  a.Series,
		}
	}
	return JSON(data)
}
