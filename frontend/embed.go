package frontend

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// FS holds the dashboard web build
//
//go:embed all:dist
var FS embed.FS

// GetHTTPFS returns the embedded dashboard build for HTTP serving. It fails
// when the build has no index.html.
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "dist")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open embedded dashboard build")
	}

	if _, err := fs.Stat(sub, "index.html"); err != nil {
		return nil, goerr.Wrap(err, "dashboard build has no index.html")
	}

	return http.FS(sub), nil
}
