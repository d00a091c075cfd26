package content

import (
	"fmt"
	iofs "io/fs"
	"path"
	"sort"
	"strings"
)

type FileReader interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]iofs.DirEntry, error)
}

// Site is the ordered set of pages of one documentation site.
type Site struct {
	pages  []*Page
	bySlug map[string]*Page
}

// NewSite orders pages by weight, then title, and rejects duplicate slugs.
func NewSite(pages []*Page) (*Site, error) {
	sorted := make([]*Page, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Meta.Weight != sorted[j].Meta.Weight {
			return sorted[i].Meta.Weight < sorted[j].Meta.Weight
		}
		return sorted[i].Meta.Title < sorted[j].Meta.Title
	})

	bySlug := make(map[string]*Page, len(sorted))
	for _, p := range sorted {
		if prev, ok := bySlug[p.Meta.Slug]; ok {
			return nil, fmt.Errorf("duplicate slug %q in %s and %s", p.Meta.Slug, prev.Source, p.Source)
		}
		bySlug[p.Meta.Slug] = p
	}

	return &Site{pages: sorted, bySlug: bySlug}, nil
}

func (s *Site) Pages() []*Page {
	return s.pages
}

func (s *Site) Page(slug string) (*Page, bool) {
	p, ok := s.bySlug[slug]
	return p, ok
}

// Neighbors returns the pages before and after slug in site order.
func (s *Site) Neighbors(slug string) (prev, next *Page) {
	for i, p := range s.pages {
		if p.Meta.Slug != slug {
			continue
		}
		if i > 0 {
			prev = s.pages[i-1]
		}
		if i < len(s.pages)-1 {
			next = s.pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Load reads every .md and .json page under dir. Drafts are skipped
// unless includeDrafts is set.
func Load(fsys FileReader, dir string, parser *Parser, includeDrafts bool) (*Site, error) {
	if parser == nil {
		parser = NewParser()
	}

	var pages []*Page
	err := walk(fsys, dir, "", func(rel string) error {
		data, err := fsys.ReadFile(path.Join(dir, rel))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}

		var page *Page
		switch strings.ToLower(path.Ext(rel)) {
		case ".md", ".markdown":
			page, err = parser.Parse(rel, data)
		case ".json":
			page, err = DecodePage(rel, data)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		if page.Meta.Draft && !includeDrafts {
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewSite(pages)
}

func walk(fsys FileReader, root, rel string, fn func(rel string) error) error {
	entries, err := fsys.ReadDir(path.Join(root, rel))
	if err != nil {
		return fmt.Errorf("failed to read content dir %s: %w", path.Join(root, rel), err)
	}
	for _, entry := range entries {
		name := path.Join(rel, entry.Name())
		if strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		if entry.IsDir() {
			if err := walk(fsys, root, name, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}
