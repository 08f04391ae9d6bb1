package viewer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/gantt/gantt"
	"github.com/sarchlab/gantt/render"
	"github.com/sarchlab/gantt/viewer/web"
)

// Handler returns the HTTP handler with all the viewer routes.
func (v *Viewer) Handler() http.Handler {
	r := mux.NewRouter()

	assets := web.Assets()

	r.HandleFunc("/", v.serveIndex(assets)).Methods(http.MethodGet)
	r.HandleFunc("/chart.svg", v.chartSVG).Methods(http.MethodGet)
	r.HandleFunc("/api/chart", v.chartJSON).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", v.summary).Methods(http.MethodGet)
	r.HandleFunc("/api/inspect", v.inspect).Methods(http.MethodGet)
	r.HandleFunc("/api/inspect/{path}", v.inspect).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", v.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", v.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/ws", v.serveWebsocket)
	r.PathPrefix("/").Handler(http.FileServer(assets))

	return r
}

func (v *Viewer) serveIndex(assets http.FileSystem) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		page, err := web.Index(assets)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if _, err := w.Write(page); err != nil {
			v.logger.Debug("writing index failed", "error", err)
		}
	}
}

// loadedOr503 returns the current snapshot, or answers 503 and returns false
// when there is no chart to show.
func (v *Viewer) loadedOr503(w http.ResponseWriter) (snapshot, bool) {
	s := v.current()
	if s.chart != nil {
		return s, true
	}

	msg := ErrNoChart.Error()
	if s.err != nil {
		msg += ": " + s.err.Error()
	}

	http.Error(w, msg, http.StatusServiceUnavailable)

	return s, false
}

func (v *Viewer) chartSVG(w http.ResponseWriter, r *http.Request) {
	s, ok := v.loadedOr503(w)
	if !ok {
		return
	}

	etag := `"` + s.version + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	_, _ = w.Write(s.svg)
}

type intervalRsp struct {
	Row    int    `json:"row"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
	Color  string `json:"color"`
}

type chartRsp struct {
	Version   string          `json:"version"`
	Error     string          `json:"error,omitempty"`
	Title     string          `json:"title"`
	XLabel    string          `json:"x_label"`
	YLabel    string          `json:"y_label"`
	Rows      []gantt.Row     `json:"rows"`
	IdleRow   int             `json:"idle_row"`
	Intervals []intervalRsp   `json:"intervals"`
	Axis      gantt.AxisRange `json:"axis"`
	Ticks     []int           `json:"ticks"`
}

func (v *Viewer) chartJSON(w http.ResponseWriter, _ *http.Request) {
	s, ok := v.loadedOr503(w)
	if !ok {
		return
	}

	rsp := chartRsp{
		Version:   s.version,
		Title:     s.chart.Title,
		XLabel:    s.chart.XLabel,
		YLabel:    s.chart.YLabel,
		Rows:      s.chart.Rows,
		IdleRow:   s.chart.IdleRow,
		Intervals: make([]intervalRsp, len(s.chart.Intervals)),
		Axis:      s.chart.Axis,
		Ticks:     s.chart.Ticks(),
	}

	if s.err != nil {
		rsp.Error = s.err.Error()
	}

	for i, iv := range s.chart.Intervals {
		rsp.Intervals[i] = intervalRsp{
			Row:    iv.Row,
			Start:  iv.Start,
			Length: iv.Length,
			Color:  gantt.HexColor(iv.Color),
		}
	}

	v.writeJSON(w, rsp)
}

func (v *Viewer) summary(w http.ResponseWriter, _ *http.Request) {
	s, ok := v.loadedOr503(w)
	if !ok {
		return
	}

	v.writeJSON(w, gantt.Summarize(s.chart))
}

// inspect serializes the chart with goseth. The optional path is a dotted
// list of fields to start from, for example Axis or Rows.
func (v *Viewer) inspect(w http.ResponseWriter, r *http.Request) {
	s, ok := v.loadedOr503(w)
	if !ok {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.chart)
	serializer.SetMaxDepth(1)

	if path := mux.Vars(r)["path"]; path != "" {
		if err := serializer.SetEntryPoint(strings.Split(path, ".")); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	buf := new(bytes.Buffer)
	if err := serializer.Serialize(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = buf.WriteTo(w)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (v *Viewer) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memory, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	v.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memory.RSS,
	})
}

func (v *Viewer) collectProfile(w http.ResponseWriter, r *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	select {
	case <-time.After(time.Second):
	case <-r.Context().Done():
	}

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	v.writeJSON(w, prof)
}

func (v *Viewer) writeJSON(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		v.logger.Debug("writing response failed", "error", err)
	}
}
