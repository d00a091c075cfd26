// Package folio serves and exports documentation sites. Pages are parsed
// into component trees and rendered through a scoped component table, so
// a site can restyle any element without touching its sources.
package folio

import (
	"bytes"
	"context"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"

	"github.com/3-lines-studio/folio/internal/adapters/env"
	"github.com/3-lines-studio/folio/internal/adapters/fs"
	httpadapter "github.com/3-lines-studio/folio/internal/adapters/http"
	"github.com/3-lines-studio/folio/internal/components"
	"github.com/3-lines-studio/folio/internal/config"
	"github.com/3-lines-studio/folio/internal/content"
	"github.com/3-lines-studio/folio/internal/core"
	"github.com/3-lines-studio/folio/internal/usecase"
)

const highlightAsset = "highlight.css"

type Config = config.Config

type Component = core.Component

type Option func(*App)

// WithFileSystem reads pages from fsys instead of the working directory.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(a *App) {
		a.fs = fsys
	}
}

// WithOutputFileSystem sets where Export writes. Defaults to the OS
// filesystem, whatever pages are read from.
func WithOutputFileSystem(fsys fs.FileSystem) Option {
	return func(a *App) {
		a.out = fsys
	}
}

// WithFS reads pages from an embedded or in-memory filesystem.
func WithFS(fsys iofs.FS) Option {
	return WithFileSystem(fs.NewEmbedFileSystem(fsys))
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithDev forces dev mode on or off, overriding FOLIO_DEV.
func WithDev(dev bool) Option {
	return func(a *App) {
		if dev {
			a.mode = env.ModeDev
		} else {
			a.mode = env.ModeProd
		}
		a.modeSet = true
	}
}

// WithComponent installs c for every page, replacing the built-in
// component of the same name.
func WithComponent(c *Component) Option {
	if c == nil {
		panic("folio: nil component passed to WithComponent")
	}
	return func(a *App) {
		a.extra[c.Name] = c
	}
}

// WithPolicy replaces the sanitizer applied to raw HTML in pages.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(a *App) {
		a.policy = policy
	}
}

type App struct {
	config  *Config
	fs      fs.FileSystem
	out     fs.FileSystem
	mode    env.Mode
	modeSet bool
	logger  *slog.Logger
	extra   core.Table
	policy  *bluemonday.Policy

	site    *content.Site
	pages   *usecase.PageService
	assets  map[string][]byte
	timeout time.Duration
}

// New loads every page under cfg.Content.Dir. A nil cfg uses the defaults.
func New(cfg *Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	app := &App{
		config: cfg,
		extra:  core.Table{},
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.fs == nil {
		app.fs = fs.NewOSFileSystem()
	}
	if app.out == nil {
		app.out = fs.NewOSFileSystem()
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}
	if !app.modeSet {
		app.mode = env.DetectMode()
	}

	timeout, err := parseTimeout(cfg.Server.RenderTimeout)
	if err != nil {
		return nil, err
	}
	app.timeout = timeout

	includeDrafts := cfg.Content.Drafts || app.mode.IsDev()
	site, err := content.Load(app.fs, cfg.Content.Dir, content.NewParser(), includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	app.site = site

	highlighter := components.NewHighlighter(cfg.Render.HighlightStyle)
	var css bytes.Buffer
	if err := highlighter.WriteCSS(&css); err != nil {
		return nil, fmt.Errorf("failed to generate highlight stylesheet: %w", err)
	}
	app.assets = map[string][]byte{highlightAsset: css.Bytes()}

	overrides := components.Docs(components.Options{
		Highlighter: highlighter,
		Policy:      app.policy,
		Extra:       app.extra,
	})

	app.pages = usecase.NewPageService(site, usecase.PageConfig{
		SiteTitle:  cfg.Site.Title,
		Overrides:  overrides,
		Ambient:    ambientProps(cfg.Render.Props),
		CSSHref:    []string{"/assets/" + highlightAsset},
		Dispatcher: core.NewDispatcher(core.WithMaxDepth(cfg.Render.MaxDepth), core.WithLogger(app.logger)),
		Logger:     app.logger,
	})

	app.logger.Info("site loaded",
		"pages", len(site.Pages()),
		"dir", cfg.Content.Dir,
		"mode", app.mode.String(),
	)

	return app, nil
}

// Pages lists the site's pages in navigation order.
func (a *App) Pages() []*content.Page {
	return a.site.Pages()
}

// Render renders one page to a complete HTML document.
func (a *App) Render(ctx context.Context, slug string) (string, error) {
	out := a.pages.ServePage(ctx, usecase.ServePageInput{Slug: slug})
	return out.HTML, out.Error
}

// Wrap mounts the site's routes on r.
func (a *App) Wrap(r chi.Router) http.Handler {
	if r == nil {
		panic("folio: nil router passed to Wrap; use app.Handler()")
	}

	isDev := a.mode.IsDev()
	pages := httpadapter.NewPageHandler(a.pages, isDev, a.logger)
	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpadapter.WriteError(w, http.StatusNotFound, fmt.Errorf("%w: %s", usecase.ErrPageNotFound, req.URL.Path), isDev)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/assets/*", http.StripPrefix("/assets", httpadapter.NewAssetHandler(a.assets)))
	r.Get("/", a.redirectHome)
	r.Method(http.MethodGet, "/{slug}", httpadapter.NewPublicHandler(a.fs, a.config.Content.Dir, pages))
	r.NotFound(httpadapter.NewPublicHandler(a.fs, a.config.Content.Dir, notFound).ServeHTTP)

	return r
}

// Handler returns a router with the default middleware stack.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.timeout))
	return a.Wrap(r)
}

// Export writes the static site to dir and returns the written paths.
func (a *App) Export(ctx context.Context, dir string) ([]string, error) {
	assets := make(map[string][]byte, len(a.assets))
	for name, data := range a.assets {
		assets["assets/"+name] = data
	}

	public, err := a.publicFiles()
	if err != nil {
		return nil, err
	}
	for name, data := range public {
		assets[name] = data
	}

	out := usecase.NewExportService(a.pages, a.out).ExportStatic(ctx, usecase.ExportInput{
		OutDir: dir,
		Assets: assets,
	})
	if out.Error != nil {
		return nil, out.Error
	}

	a.logger.Info("site exported", "dir", dir, "files", len(out.Files))
	return out.Files, nil
}

func (a *App) redirectHome(w http.ResponseWriter, req *http.Request) {
	slug := a.config.Site.Home
	if slug == "" {
		pages := a.site.Pages()
		if len(pages) == 0 {
			httpadapter.WriteError(w, http.StatusNotFound, usecase.ErrPageNotFound, a.mode.IsDev())
			return
		}
		slug = pages[0].Meta.Slug
	}
	http.Redirect(w, req, content.PermalinkFor(slug), http.StatusFound)
}

// publicFiles collects the non-page files under the content dir so an
// exported site keeps its images and downloads.
func (a *App) publicFiles() (map[string][]byte, error) {
	files := map[string][]byte{}
	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := a.fs.ReadDir(path.Join(a.config.Content.Dir, rel))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				continue
			}
			child := path.Join(rel, name)
			if e.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if _, ok := httpadapter.ContentType(name); !ok {
				continue
			}
			data, err := a.fs.ReadFile(path.Join(a.config.Content.Dir, child))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", child, err)
			}
			files[child] = data
		}
		return nil
	}
	return files, walk("")
}

// ambientProps turns configured site props into hidden props, so full-props
// components can read them without every element rendering them.
func ambientProps(values map[string]any) *core.Props {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	props := core.NewProps()
	for _, name := range names {
		props.SetHidden(core.StringKey(name), values[name])
	}
	return props
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 10 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid server.render_timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.render_timeout must be positive")
	}
	return d, nil
}
