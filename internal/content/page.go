package content

import (
	"path/filepath"
	"strings"

	"github.com/3-lines-studio/folio/internal/core"
)

// Meta is page metadata. It is used for display only and never reaches
// the dispatcher.
type Meta struct {
	Title       string
	Slug        string
	Permalink   string
	Description string
	Weight      int
	Draft       bool
}

type Page struct {
	Meta   Meta
	Root   core.Node
	Source string
}

// SlugForPath derives a slug from a content file path:
// "guide/Benchmarks.md" becomes "guide-benchmarks".
func SlugForPath(path string) string {
	name := filepath.ToSlash(path)
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "/", "-")
	return Slugify(name)
}

// Slugify lower-cases s and keeps only [a-z0-9-], collapsing runs of
// anything else into a single dash.
func Slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

func PermalinkFor(slug string) string {
	return "/" + slug
}
