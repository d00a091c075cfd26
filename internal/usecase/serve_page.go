package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/3-lines-studio/folio/internal/content"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/markup"
)

type ServePageInput struct {
	Slug string
}

type ServePageOutput struct {
	HTML  string
	Page  *content.Page
	Error error
}

type PageConfig struct {
	SiteTitle string
	// Overrides are installed by a provider around every page root.
	Overrides core.Overrides
	// Ambient props reach every component rendered under the page. Keep
	// them hidden unless they should become element attributes.
	Ambient    *core.Props
	CSSHref    []string
	Dispatcher *core.Dispatcher
	Logger     *slog.Logger
}

type PageService struct {
	site   *content.Site
	config PageConfig
}

func NewPageService(site *content.Site, config PageConfig) *PageService {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Dispatcher == nil {
		config.Dispatcher = core.NewDispatcher(core.WithLogger(config.Logger))
	}
	return &PageService{
		site:   site,
		config: config,
	}
}

func (s *PageService) Site() *content.Site {
	return s.site
}

func (s *PageService) ServePage(ctx context.Context, input ServePageInput) ServePageOutput {
	page, ok := s.site.Page(input.Slug)
	if !ok {
		return ServePageOutput{
			Error: fmt.Errorf("%w: %q", ErrPageNotFound, input.Slug),
		}
	}

	if err := ctx.Err(); err != nil {
		return ServePageOutput{Page: page, Error: err}
	}

	start := time.Now()
	html, err := s.renderPage(page)
	if err != nil {
		s.config.Logger.Error("render failed", "slug", page.Meta.Slug, "source", page.Source, "error", err)
		return ServePageOutput{Page: page, Error: err}
	}

	s.config.Logger.Debug("rendered page", "slug", page.Meta.Slug, "duration", time.Since(start))

	return ServePageOutput{
		HTML: html,
		Page: page,
	}
}

func (s *PageService) renderPage(page *content.Page) (string, error) {
	root := core.Provide(s.config.Overrides, s.config.Ambient, page.Root)

	out, err := s.config.Dispatcher.Render(root, core.NewEnv())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", page.Source, err)
	}

	body, err := markup.String(out)
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", page.Source, err)
	}

	shell := markup.Shell{
		SiteTitle:   s.config.SiteTitle,
		Title:       page.Meta.Title,
		Description: page.Meta.Description,
		BodyHTML:    body,
		CSSHref:     s.config.CSSHref,
		Nav:         s.navFor(page.Meta.Slug),
	}

	prev, next := s.site.Neighbors(page.Meta.Slug)
	if prev != nil {
		shell.Prev = &markup.NavLink{Title: prev.Meta.Title, Permalink: prev.Meta.Permalink}
	}
	if next != nil {
		shell.Next = &markup.NavLink{Title: next.Meta.Title, Permalink: next.Meta.Permalink}
	}

	return markup.RenderShell(shell)
}

func (s *PageService) navFor(slug string) []markup.NavLink {
	pages := s.site.Pages()
	links := make([]markup.NavLink, 0, len(pages))
	for _, p := range pages {
		links = append(links, markup.NavLink{
			Title:     p.Meta.Title,
			Permalink: p.Meta.Permalink,
			Current:   p.Meta.Slug == slug,
		})
	}
	return links
}
