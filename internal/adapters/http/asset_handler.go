package http

import (
	"net/http"
	"path"
	"strings"

	"github.com/3-lines-studio/folio/internal/adapters/fs"
)

// AssetHandler serves generated assets, such as the highlight stylesheet,
// from memory. Mount it with http.StripPrefix.
type AssetHandler struct {
	assets map[string][]byte
}

func NewAssetHandler(assets map[string][]byte) http.Handler {
	return &AssetHandler{assets: assets}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, "/")
	data, ok := h.assets[name]
	if name == "" || !ok {
		http.NotFound(w, req)
		return
	}

	contentType, _ := ContentType(name)
	etag := ETag(data)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	_, _ = w.Write(data)
}

// PublicHandler serves non-page files that live next to the pages (images,
// downloads). Anything else goes to next.
type PublicHandler struct {
	fs   fs.FileSystem
	root string
	next http.Handler
}

func NewPublicHandler(fsys fs.FileSystem, root string, next http.Handler) http.Handler {
	return &PublicHandler{
		fs:   fsys,
		root: root,
		next: next,
	}
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := path.Clean("/" + req.URL.Path)
	contentType, known := ContentType(name)
	if !known || hiddenPath(name) {
		h.next.ServeHTTP(w, req)
		return
	}

	full := path.Join(h.root, name)
	if !h.fs.FileExists(full) {
		h.next.ServeHTTP(w, req)
		return
	}

	data, err := h.fs.ReadFile(full)
	if err != nil {
		h.next.ServeHTTP(w, req)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func hiddenPath(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") {
			return true
		}
	}
	return false
}
