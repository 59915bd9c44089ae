package stream

import (
	_ "embed"
	nethttp "net/http"
)

//go:embed viewer.html
var viewerPage []byte

// Viewer serves a minimal browser client that draws streamed frames on a 2D
// canvas and forwards keyboard events.
func Viewer() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/" {
			nethttp.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(viewerPage)
	})
}
