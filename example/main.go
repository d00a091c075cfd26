package main

import (
	"embed"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/3-lines-studio/folio"
	"github.com/3-lines-studio/folio/internal/config"
	"github.com/3-lines-studio/folio/internal/core"
)

//go:embed content
var contentFS embed.FS

// GPU renders <GPU name="A100" memory="80" /> from JSON pages.
var gpu = &folio.Component{
	Name: "GPU",
	Render: func(call *core.Call) (core.Output, error) {
		label := call.Props.String("name") + " (" + call.Props.String("memory") + " GB)"
		return &core.ElementOutput{
			Tag:      "span",
			Attrs:    core.PropsOf(map[string]any{"class": "gpu"}),
			Children: []core.Output{core.TextOutput(label)},
		}, nil
	},
}

func main() {
	cfg := config.Default()
	cfg.Site.Title = "H2O LLM Studio"
	cfg.Render.Props = map[string]any{"version": "1.4.0"}

	app, err := folio.New(cfg, folio.WithFS(contentFS), folio.WithComponent(gpu))
	if err != nil {
		log.Fatalf("failed to load site: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes live next to the docs.
	r.Get("/api/pages", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, p := range app.Pages() {
			_, _ = w.Write([]byte(p.Meta.Permalink + "\n"))
		}
	})

	addr := ":8080"
	log.Printf("Serving on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, app.Wrap(r)); err != nil {
		log.Fatal(err)
	}
}
