package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// FS embeds the escalation form assets
//
//go:embed all:static
var FS embed.FS

// GetHTTPFS returns the embedded form filesystem for HTTP serving
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return nil, err
	}

	if _, err := fs.Stat(sub, "index.html"); err != nil {
		return nil, err
	}

	return http.FS(sub), nil
}
