package preview

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

func newEditor() *timeline.Editor {
	ed := timeline.New(registry.Builtin(), nil)
	tr := ed.AddTrack("fx", timeline.TrackEffects)
	r := ed.AddRegion(tr.ID, 10, 60)
	ed.AddEffect(r.ID, "blur")
	ed.AddAutomationLane(r.ID, 0, "radius")
	return ed
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthAndMetrics(t *testing.T) {
	s := New(newEditor(), Options{})

	rec := do(t, s, "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")

	rec = do(t, s, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "otfx_http_requests_total")
}

func TestSummary(t *testing.T) {
	ed := newEditor()
	ed.SetInPoint(5)
	s := New(ed, Options{})

	rec := do(t, s, "GET", "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum summary
	decode(t, rec, &sum)
	assert.Equal(t, 1, sum.Tracks)
	assert.Equal(t, 1, sum.Regions)
	assert.Equal(t, 1, sum.Lanes)
	require.NotNil(t, sum.InPoint)
	assert.Equal(t, 5, *sum.InPoint)
	assert.Nil(t, sum.OutPoint)
}

func TestFrameDescription(t *testing.T) {
	s := New(newEditor(), Options{})

	rec := do(t, s, "GET", "/api/frames/30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fd timeline.FrameDescription
	decode(t, rec, &fd)
	assert.Equal(t, 30, fd.Frame)
	require.Len(t, fd.Regions, 1)
	assert.Equal(t, "blur", fd.Regions[0].Effects[0].Name)

	rec = do(t, s, "GET", "/api/frames/500", "")
	decode(t, rec, &fd)
	assert.Empty(t, fd.Regions)
}

func TestRegionResolvesAutomation(t *testing.T) {
	s := New(newEditor(), Options{})

	rec := do(t, s, "GET", "/api/regions/0?frame=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp regionResponse
	decode(t, rec, &resp)
	assert.Equal(t, 0, resp.Region.RegionID)
	require.Len(t, resp.Resolved, 1)
	assert.InDelta(t, 4.0, resp.Resolved[0]["radius"], 1e-9)

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/api/regions/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/regions/0?frame=x", "").Code)
}

func TestLaneSamples(t *testing.T) {
	s := New(newEditor(), Options{})

	rec := do(t, s, "GET", "/api/lanes/0/samples?from=10&to=14", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp samplesResponse
	decode(t, rec, &resp)
	assert.Len(t, resp.Values, 5)

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/api/lanes/7/samples", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/lanes/0/samples?from=20&to=10", "").Code)
}

func TestPlayhead(t *testing.T) {
	var changes int
	s := New(newEditor(), Options{OnChange: func(*timeline.Editor) { changes++ }})

	rec := do(t, s, "PUT", "/api/playhead", `{"frame":42}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, changes)

	var p playheadBody
	decode(t, do(t, s, "GET", "/api/playhead", ""), &p)
	assert.Equal(t, 42, p.Frame)

	// Out of range frames clamp.
	decode(t, do(t, s, "PUT", "/api/playhead", `{"frame":99999}`), &p)
	s.Do(func(ed *timeline.Editor) {
		assert.Equal(t, ed.LastFrame(), p.Frame)
	})

	assert.Equal(t, http.StatusBadRequest, do(t, s, "PUT", "/api/playhead", `nope`).Code)
}

func TestProjectRoundTrip(t *testing.T) {
	src := New(newEditor(), Options{})
	rec := do(t, src, "GET", "/api/project", "")
	require.Equal(t, http.StatusOK, rec.Code)

	dst := New(timeline.New(nil, nil), Options{})
	rec = do(t, dst, "PUT", "/api/project", rec.Body.String())
	require.Equal(t, http.StatusOK, rec.Code)
	dst.Do(func(ed *timeline.Editor) {
		assert.Len(t, ed.Tracks, 1)
		assert.Len(t, ed.Lanes, 1)
	})

	assert.Equal(t, http.StatusBadRequest, do(t, dst, "PUT", "/api/project", "{").Code)
}

func TestSnapshotPNG(t *testing.T) {
	s := New(newEditor(), Options{})

	rec := do(t, s, "GET", "/api/snapshot.png?width=640&height=200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	rec = do(t, s, "GET", "/api/snapshot.png?width=640&height=200&thumb=160", "")
	img, err = png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())

	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/api/snapshot.png?width=10", "").Code)
}

func TestEffects(t *testing.T) {
	s := New(newEditor(), Options{})
	var specs []registry.EffectSpec
	decode(t, do(t, s, "GET", "/api/effects", ""), &specs)
	require.NotEmpty(t, specs)

	names := make([]string, 0, len(specs))
	for _, sp := range specs {
		names = append(names, sp.Name)
	}
	assert.Contains(t, names, "blur")
}

func TestSnapshotsWithoutStore(t *testing.T) {
	s := New(newEditor(), Options{})
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, "GET", "/api/snapshots", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, "POST", "/api/snapshots", "").Code)
}

func TestSnapshotSaveListRestore(t *testing.T) {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s := New(newEditor(), Options{Store: st, Project: "demo"})

	rec := do(t, s, "POST", "/api/snapshots", `{"label":"before"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]int64
	decode(t, rec, &created)
	id := created["id"]

	s.Do(func(ed *timeline.Editor) { ed.AddTrack("extra", timeline.TrackVideo) })

	var list []snapshotInfo
	decode(t, do(t, s, "GET", "/api/snapshots", ""), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "before", list[0].Label)

	rec = do(t, s, "POST", "/api/snapshots/"+itoa(id)+"/restore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	s.Do(func(ed *timeline.Editor) { assert.Len(t, ed.Tracks, 1) })

	assert.Equal(t, http.StatusNotFound, do(t, s, "POST", "/api/snapshots/999/restore", "").Code)
}

func TestUnknownMethod(t *testing.T) {
	s := New(newEditor(), Options{})
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, "DELETE", "/api/summary", "").Code)
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
