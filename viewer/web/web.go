// Package web holds the page that shows a Gantt chart in the browser. The
// page loads chart.svg and reloads it when a new version arrives on /ws.
package web

import (
	"embed"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DevEnv makes the viewer read its page from the source tree instead of the
// binary, so edits to dist/ show up on a browser refresh.
const DevEnv = "GANTT_VIEWER_DEV"

// IndexPage is the page served at the viewer root.
const IndexPage = "index.html"

//go:embed dist
var dist embed.FS

// Assets returns the files served under the viewer root.
func Assets() http.FileSystem {
	if dir, ok := sourceDir(); ok && devMode() {
		slog.Info("serving viewer page from source tree", "dir", dir)
		return http.Dir(dir)
	}

	page, err := fs.Sub(dist, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(page)
}

// Index reads the chart page out of assets.
func Index(assets http.FileSystem) ([]byte, error) {
	f, err := assets.Open(IndexPage)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func sourceDir() (string, bool) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", false
	}

	return filepath.Join(filepath.Dir(file), "dist"), true
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevEnv))
	return err == nil && on
}
