// Package static embeds the browser assets served under /static/.
package static

import (
	"embed"
	"net/http"
)

//go:embed *.js *.css *.svg
var files embed.FS

// Handler serves the embedded assets. Mount with http.StripPrefix("/static/", ...).
func Handler() http.Handler {
	return http.FileServer(http.FS(files))
}
