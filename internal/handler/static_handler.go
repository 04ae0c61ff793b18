package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Static serves the site's static tree. A request is served from the direct
// file when it exists; otherwise the path is treated as a directory and its
// index.html is attempted; everything else is a plain-text 404. Resolved
// paths must stay under the root directory.
func Static(rootDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clean := path.Clean("/" + r.URL.Path)
		target := filepath.Join(rootDir, filepath.FromSlash(clean))

		root := filepath.Clean(rootDir)
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			http.ServeFile(w, r, target)
			return
		}

		index := filepath.Join(target, "index.html")
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}

		http.Error(w, "Not Found", http.StatusNotFound)
	}
}
