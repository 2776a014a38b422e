package example

import (
	"net/http"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/foomo/seolint/logging"
)

// PageHeader names the served page in responses of the example server
const PageHeader = "X-Example-Page"

type server struct {
	root string
}

// Root is the htdocs directory shipped with this package
func Root() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "htdocs")
}

// NewServer serves the html pages and the robots.txt below root
func NewServer(root string) http.Handler {
	return &server{
		root: root,
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logging.Default().Debug("example server serving", logging.FieldURL, r.URL.String())
	p := path.Clean("/" + r.URL.Path)
	// Clean drops the trailing slash of directory requests
	if strings.HasSuffix(r.URL.Path, "/") {
		p = path.Join(p, "index.html")
	}
	if p != "/robots.txt" && !strings.HasSuffix(p, ".html") {
		http.Error(w, "page not found, expecting /<page>.html", http.StatusNotFound)
		return
	}
	w.Header().Set(PageHeader, strings.TrimSuffix(strings.TrimPrefix(p, "/"), ".html"))
	http.ServeFile(w, r, filepath.Join(s.root, filepath.FromSlash(p)))
}
