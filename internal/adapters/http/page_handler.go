package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/3-lines-studio/folio/internal/usecase"
)

type PageHandler struct {
	service *usecase.PageService
	isDev   bool
	logger  *slog.Logger
}

func NewPageHandler(service *usecase.PageService, isDev bool, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		service: service,
		isDev:   isDev,
		logger:  logger,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")
	if slug == "" {
		slug = strings.Trim(req.URL.Path, "/")
	}

	output := h.service.ServePage(req.Context(), usecase.ServePageInput{Slug: slug})
	if output.Error != nil {
		h.serveError(w, req, output.Error)
		return
	}

	h.serveHTML(w, req, output.HTML)
}

func (h *PageHandler) serveHTML(w http.ResponseWriter, req *http.Request, body string) {
	etag := ETag([]byte(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if match := req.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *PageHandler) serveError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrPageNotFound):
		WriteError(w, http.StatusNotFound, err, h.isDev)
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusServiceUnavailable, err, h.isDev)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		h.logger.Error("page request failed", "path", req.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, err, h.isDev)
	}
}

// WriteError renders the error page. Details are only shown in dev mode.
func WriteError(w http.ResponseWriter, status int, err error, isDev bool) {
	data := errorData{
		Status:  status,
		Title:   http.StatusText(status),
		Message: err.Error(),
		IsDev:   isDev,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, data); err != nil {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, "<!doctype html><html><body><pre>%s</pre></body></html>", html.EscapeString(data.Message))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type errorData struct {
	Status  int
	Title   string
	Message string
	IsDev   bool
}

var errorTemplate = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Status}} {{.Title}}</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 50px auto; padding: 0 20px; }
        h1 { color: #e74c3c; }
        pre { background: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>{{.Status}} {{.Title}}</h1>
    {{if .IsDev}}
    <pre>{{.Message}}</pre>
    {{else if eq .Status 404}}
    <p>The page you are looking for does not exist.</p>
    {{else}}
    <p>An error occurred while rendering this page.</p>
    {{end}}
</body>
</html>`))
