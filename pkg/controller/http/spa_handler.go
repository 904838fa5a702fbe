package http

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// SPAHandler serves the dashboard build. Unknown routes get index.html;
// missing files with an extension are 404.
type SPAHandler struct {
	fileSystem http.FileSystem
	index      []byte
}

// NewSPAHandler creates a new SPA handler
func NewSPAHandler(filesystem http.FileSystem) (*SPAHandler, error) {
	f, err := filesystem.Open("/index.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open index.html for SPA handler")
	}
	defer f.Close()

	index, err := io.ReadAll(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read index.html content")
	}

	return &SPAHandler{
		fileSystem: filesystem,
		index:      index,
	}, nil
}

// ServeHTTP implements http.Handler
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	cleanPath := path.Clean("/" + r.URL.Path)
	if cleanPath == "/" || cleanPath == "/index.html" {
		h.serveIndex(w, r)
		return
	}

	file, err := h.fileSystem.Open(cleanPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if path.Ext(cleanPath) != "" {
			http.NotFound(w, r)
			return
		}
		h.serveIndex(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		h.serveIndex(w, r)
		return
	}

	if ct := mime.TypeByExtension(path.Ext(cleanPath)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if strings.HasPrefix(cleanPath, "/assets/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}
	http.ServeContent(w, r, cleanPath, stat.ModTime(), file)
}

func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(h.index))
}
