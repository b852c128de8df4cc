package content

import (
	"fmt"
	"path"
	"strings"
)

// Extensions lists the file extensions treated as articles.
var Extensions = []string{".mdx", ".md"}

// DeriveSlug computes the route slug for a file path relative to the content
// root: the root prefix and extension are stripped and nested directories are
// kept as "/"-separated segments.
func DeriveSlug(relPath, root string) (string, error) {
	p := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	root = strings.Trim(path.Clean(strings.ReplaceAll(root, "\\", "/")), "/")
	if root != "" && root != "." {
		if !strings.HasPrefix(p, root+"/") {
			return "", fmt.Errorf("content: %s is outside %s", relPath, root)
		}
		p = strings.TrimPrefix(p, root+"/")
	}
	ext := path.Ext(p)
	if !isArticleExt(ext) {
		return "", fmt.Errorf("content: %s is not an article file", relPath)
	}
	slug := strings.Trim(strings.TrimSuffix(p, ext), "/")
	if slug == "" || slug == "." {
		return "", fmt.Errorf("content: empty slug for %s", relPath)
	}
	return slug, nil
}

// NormalizeSlug turns a request path fragment into a lookup key.
func NormalizeSlug(s string) string {
	return strings.Trim(s, "/")
}

func isArticleExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
