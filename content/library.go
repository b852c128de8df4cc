package content

import (
	"fmt"
	"strings"
)

// reservedSegment is the first slug segment taken by /articles/page/N/.
const reservedSegment = "page"

// Library is an immutable, date-ordered set of articles indexed by slug.
// It is safe for concurrent reads.
type Library struct {
	articles []Article
	bySlug   map[string]int
}

// NewLibrary indexes articles. They are sorted newest first. A slug appearing
// twice, or one starting with the "page" segment, is an error.
func NewLibrary(articles []Article) (*Library, error) {
	sorted := make([]Article, len(articles))
	copy(sorted, articles)
	SortByDate(sorted)

	lib := &Library{
		articles: sorted,
		bySlug:   make(map[string]int, len(sorted)),
	}
	for i, a := range sorted {
		if first, _, _ := strings.Cut(a.Slug, "/"); first == reservedSegment {
			return nil, fmt.Errorf("%w: %q from %s", ErrReservedSlug, a.Slug, a.Path)
		}
		if prev, ok := lib.bySlug[a.Slug]; ok {
			return nil, fmt.Errorf("%w: %q from %s and %s", ErrDuplicateSlug, a.Slug, sorted[prev].Path, a.Path)
		}
		lib.bySlug[a.Slug] = i
	}
	return lib, nil
}

// Lookup returns the article for slug. Leading and trailing slashes are ignored.
func (l *Library) Lookup(slug string) (Article, error) {
	if l == nil {
		return Article{}, ErrNotFound
	}
	i, ok := l.bySlug[NormalizeSlug(slug)]
	if !ok {
		return Article{}, ErrNotFound
	}
	return l.articles[i], nil
}

// All returns every article, newest first. The slice is a copy.
func (l *Library) All() []Article {
	if l == nil {
		return nil
	}
	out := make([]Article, len(l.articles))
	copy(out, l.articles)
	return out
}

// Recent returns at most n of the newest articles.
func (l *Library) Recent(n int) []Article {
	if l == nil || n <= 0 {
		return nil
	}
	if n > len(l.articles) {
		n = len(l.articles)
	}
	out := make([]Article, n)
	copy(out, l.articles[:n])
	return out
}

// Len reports how many articles are indexed.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.articles)
}

// PageInfo describes one page of a paginated article listing.
type PageInfo struct {
	Articles   []Article
	Page       int
	TotalPages int
}

// HasPrev reports whether there is a newer page.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether there is an older page.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// Page returns the 1-based page of size articles. An empty library has a
// single empty page; any other out-of-range page reports ok=false.
func (l *Library) Page(page, size int) (PageInfo, bool) {
	if size <= 0 {
		size = 10
	}
	total := l.Len()
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 || page > pages {
		return PageInfo{}, false
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	var items []Article
	if start < end {
		items = make([]Article, end-start)
		copy(items, l.articles[start:end])
	}
	return PageInfo{Articles: items, Page: page, TotalPages: pages}, true
}
