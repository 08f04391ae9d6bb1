// Package viewer serves a chart over HTTP and pushes reloads to browsers.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/browser"
	"github.com/rs/xid"
	"golang.org/x/sync/singleflight"

	"github.com/sarchlab/gantt/gantt"
	"github.com/sarchlab/gantt/render"
)

// ErrNoChart is reported when a chart is requested before any was loaded.
var ErrNoChart = errors.New("no chart loaded yet")

// A ChartLoader builds the chart that the viewer displays. A
// *pipeline.Pipeline is a ChartLoader.
type ChartLoader interface {
	Build(ctx context.Context) (*gantt.Chart, error)
}

// Viewer keeps the most recent chart and serves it.
type Viewer struct {
	loader   ChartLoader
	renderer render.Renderer
	addr     string
	logger   *slog.Logger

	lock    sync.RWMutex
	chart   *gantt.Chart
	svg     []byte
	version string
	lastErr error

	clientsLock sync.Mutex
	clients     map[*websocket.Conn]bool

	reloadGroup singleflight.Group

	listener net.Listener
}

// NewViewer creates a viewer that displays the charts built by loader.
func NewViewer(loader ChartLoader) *Viewer {
	return &Viewer{
		loader:   loader,
		renderer: render.NewSVGRenderer(render.DefaultSize),
		addr:     "localhost:0",
		logger:   slog.Default(),
		clients:  make(map[*websocket.Conn]bool),
	}
}

// WithAddr sets the address to listen on. Port 0 picks a free port.
func (v *Viewer) WithAddr(addr string) *Viewer {
	v.addr = addr
	return v
}

// WithSize sets the size of the served SVG.
func (v *Viewer) WithSize(size render.Size) *Viewer {
	v.renderer = render.NewSVGRenderer(size)
	return v
}

// WithLogger sets the logger.
func (v *Viewer) WithLogger(logger *slog.Logger) *Viewer {
	v.logger = logger.With("component", "viewer")
	return v
}

// Version returns the id of the current chart, or an empty string if no
// chart has been loaded.
func (v *Viewer) Version() string {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return v.version
}

// Reload builds the chart again. The chart only gets a new version if its
// rendering differs from the current one, in which case connected clients
// are notified. On failure the current chart is kept. Concurrent calls share
// one load.
func (v *Viewer) Reload(ctx context.Context) (changed bool, err error) {
	result, err, _ := v.reloadGroup.Do("reload", func() (any, error) {
		return v.reload(ctx)
	})
	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

func (v *Viewer) reload(ctx context.Context) (bool, error) {
	chart, err := v.loader.Build(ctx)
	if err != nil {
		v.setError(err)
		return false, err
	}

	buf := new(bytes.Buffer)
	if err := v.renderer.Render(ctx, chart, buf); err != nil {
		v.setError(err)
		return false, err
	}

	v.lock.Lock()
	v.lastErr = nil

	if v.svg != nil && bytes.Equal(v.svg, buf.Bytes()) {
		v.lock.Unlock()
		return false, nil
	}

	v.chart = chart
	v.svg = buf.Bytes()
	v.version = xid.New().String()
	version := v.version
	v.lock.Unlock()

	v.logger.Info("chart loaded",
		"version", version,
		"rows", len(chart.Rows),
		"intervals", len(chart.Intervals))
	v.broadcast(version)

	return true, nil
}

func (v *Viewer) setError(err error) {
	v.lock.Lock()
	v.lastErr = err
	v.lock.Unlock()
}

type snapshot struct {
	chart   *gantt.Chart
	svg     []byte
	version string
	err     error
}

func (v *Viewer) current() snapshot {
	v.lock.RLock()
	defer v.lock.RUnlock()

	return snapshot{
		chart:   v.chart,
		svg:     v.svg,
		version: v.version,
		err:     v.lastErr,
	}
}

// Watch reloads the chart every interval until ctx is done. Load errors are
// logged and the last good chart stays on display.
func (v *Viewer) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := v.Reload(ctx); err != nil && ctx.Err() == nil {
				v.logger.Warn("reloading chart failed", "error", err)
			}
		}
	}
}

// Listen opens the listener and reports the viewer URL on stderr.
func (v *Viewer) Listen() (string, error) {
	listener, err := net.Listen("tcp", v.addr)
	if err != nil {
		return "", fmt.Errorf("listening on %s: %w", v.addr, err)
	}

	v.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Viewing gantt chart at %s\n", url)

	return url, nil
}

// OpenBrowser opens the url in the default browser.
func (v *Viewer) OpenBrowser(url string) {
	if err := browser.OpenURL(url); err != nil {
		v.logger.Warn("opening browser failed", "url", url, "error", err)
	}
}

// Serve serves HTTP on the listener opened by Listen until ctx is done.
func (v *Viewer) Serve(ctx context.Context) error {
	if v.listener == nil {
		if _, err := v.Listen(); err != nil {
			return err
		}
	}

	server := &http.Server{
		Handler:           v.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		v.closeClients()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.Serve(v.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
