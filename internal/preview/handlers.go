package preview

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/raster"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes bounds uploaded project documents.
const maxBodyBytes = 16 << 20

// maxSamples bounds one lane sample request.
const maxSamples = 100000

// writeJSON encodes v as JSON and writes it to the response writer.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error("failed to encode JSON error: %v", err)
	}
}

func pathInt(r *http.Request, name string) int {
	// Routes constrain these to digits.
	n, _ := strconv.Atoi(mux.Vars(r)[name])
	return n
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.ed.Serialize()
	s.mu.Unlock()
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		logging.Error("failed to write project: %v", err)
	}
}

func (s *Server) putProject(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.Deserialize(data); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.changed()
	metrics.UpdateEditorGauges(s.ed)
	logging.Info("project replaced over HTTP (%d tracks, %d lanes)", len(s.ed.Tracks), len(s.ed.Lanes))
	writeJSON(w, map[string]string{"status": "ok"})
}

type summary struct {
	Tracks      int     `json:"tracks"`
	Regions     int     `json:"regions"`
	Lanes       int     `json:"lanes"`
	TotalFrames int     `json:"totalFrames"`
	FPS         float64 `json:"fps"`
	Playhead    int     `json:"playhead"`
	InPoint     *int    `json:"inPoint,omitempty"`
	OutPoint    *int    `json:"outPoint,omitempty"`
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ed := s.ed
	sum := summary{
		Tracks:      len(ed.Tracks),
		Lanes:       len(ed.Lanes),
		TotalFrames: ed.TotalFrames(),
		FPS:         ed.FPS,
		Playhead:    ed.Playhead,
	}
	for _, t := range ed.Tracks {
		sum.Regions += len(t.Regions)
	}
	if in := ed.InPoint; in >= 0 {
		sum.InPoint = &in
	}
	if out := ed.OutPoint; out >= 0 {
		sum.OutPoint = &out
	}
	s.mu.Unlock()
	writeJSON(w, sum)
}

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	frame := pathInt(r, "frame")
	start := time.Now()
	s.mu.Lock()
	fd := s.ed.DescribeFrame(frame)
	s.mu.Unlock()
	metrics.ObserveRender("describe", start)
	writeJSON(w, fd)
}

type regionResponse struct {
	Region   timeline.RegionDescription `json:"region"`
	Resolved []map[string]any           `json:"resolved"`
}

func (s *Server) getRegion(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	frame, err := queryInt(r, "frame", s.ed.Playhead)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rd, ok := s.ed.DescribeRegion(id, frame)
	if !ok {
		writeJSONError(w, "region not found", http.StatusNotFound)
		return
	}
	resp := regionResponse{Region: rd}
	for i := range s.ed.Region(id).Effects {
		resp.Resolved = append(resp.Resolved, s.ed.ResolvedParams(id, i, frame))
	}
	writeJSON(w, resp)
}

type samplesResponse struct {
	LaneID int       `json:"laneId"`
	From   int       `json:"from"`
	To     int       `json:"to"`
	Values []float64 `json:"values"`
}

func (s *Server) getLaneSamples(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ed.Lane(id)
	if l == nil {
		writeJSONError(w, "lane not found", http.StatusNotFound)
		return
	}
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := queryInt(r, "to", s.ed.LastFrame())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if to < from || to-from >= maxSamples {
		writeJSONError(w, "invalid range", http.StatusBadRequest)
		return
	}
	writeJSON(w, samplesResponse{
		LaneID: id,
		From:   from,
		To:     to,
		Values: automation.SampleRange(l.Keyframes, from, to),
	})
}

type playheadBody struct {
	Frame int `json:"frame"`
}

func (s *Server) getPlayhead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	p := playheadBody{Frame: s.ed.Playhead}
	s.mu.Unlock()
	writeJSON(w, p)
}

func (s *Server) putPlayhead(w http.ResponseWriter, r *http.Request) {
	var body playheadBody
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&body); err != nil {
		writeJSONError(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.ed.SetPlayhead(body.Frame)
	body.Frame = s.ed.Playhead
	s.changed()
	s.mu.Unlock()
	writeJSON(w, body)
}

func (s *Server) getSnapshotPNG(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", 1280)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := queryInt(r, "height", 360)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	thumb, err := queryInt(r, "thumb", 0)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if width < 200 || width > 8192 || height < 64 || height > 8192 {
		writeJSONError(w, "size out of range", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.mu.Lock()
	view := s.ed.View
	s.ed.View.SetVisibleWidth(float64(width) - s.ed.View.HeaderWidth)
	surface := scene.Render(s.ed, scene.Options{Width: float64(width), Height: float64(height), Theme: s.opts.Theme})
	s.ed.View = view
	s.mu.Unlock()
	metrics.ObserveRender("scene", start)

	start = time.Now()
	img := raster.Rasterize(surface)
	metrics.ObserveRender("raster", start)

	var buf bytes.Buffer
	if thumb > 0 {
		err = raster.EncodePNG(&buf, raster.Thumbnail(img, thumb))
	} else {
		err = raster.EncodePNG(&buf, img)
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Error("failed to write snapshot: %v", err)
	}
}

func (s *Server) getEffects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reg := s.ed.Registry()
	s.mu.Unlock()
	out := []registry.EffectSpec{}
	if reg != nil {
		for _, name := range reg.Names() {
			if spec, ok := reg.Lookup(name); ok {
				out = append(out, spec)
			}
		}
	}
	writeJSON(w, out)
}

type snapshotInfo struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	Size      int       `json:"size"`
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSONError(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	hist, err := s.opts.Store.History(r.Context(), s.opts.Project, limit)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]snapshotInfo, 0, len(hist))
	for _, h := range hist {
		out = append(out, snapshotInfo{ID: h.ID, Label: h.Label, CreatedAt: h.CreatedAt, Size: h.Size})
	}
	writeJSON(w, out)
}

func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSONError(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return
	}
	var body struct {
		Label string `json:"label"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<12)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, "invalid body", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	data, err := s.ed.Serialize()
	s.mu.Unlock()
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	id, err := s.opts.Store.SaveDocument(r.Context(), s.opts.Project, body.Label, data)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]int64{"id": id}); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

func (s *Server) restoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSONError(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return
	}
	snap, err := s.opts.Store.Get(r.Context(), int64(pathInt(r, "id")))
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ed.Deserialize(snap.Data); err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.changed()
	metrics.UpdateEditorGauges(s.ed)
	writeJSON(w, map[string]int64{"restored": snap.ID})
}
