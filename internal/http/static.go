package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// spaHandler serves files from dir and falls back to index.html so client-side
// routes resolve.
type spaHandler struct {
	dir      string
	files    http.Handler
	notFound http.HandlerFunc
}

func newSPAHandler(dir string, notFound http.HandlerFunc) *spaHandler {
	return &spaHandler{
		dir:      dir,
		files:    http.FileServer(http.Dir(dir)),
		notFound: notFound,
	}
}

func (s *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.notFound(w, r)
		return
	}

	name := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		s.files.ServeHTTP(w, r)
		return
	}

	index := filepath.Join(s.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		s.notFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
