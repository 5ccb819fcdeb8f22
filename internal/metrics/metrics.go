package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otfx_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "otfx_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otfx_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Store metrics
var (
	StoreQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otfx_store_queries_total",
			Help: "Total number of snapshot store queries",
		},
		[]string{"operation", "status"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "otfx_store_query_duration_seconds",
			Help:    "Snapshot store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	StoreSnapshotBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "otfx_store_snapshot_bytes",
			Help:    "Size of saved project snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// Editor metrics
var (
	EditorTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otfx_editor_tracks",
			Help: "Number of tracks in the open project",
		},
	)

	EditorRegions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otfx_editor_regions",
			Help: "Number of regions in the open project",
		},
	)

	EditorLanes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otfx_editor_lanes",
			Help: "Number of automation lanes in the open project",
		},
	)

	EditorKeyframes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "otfx_editor_keyframes",
			Help: "Number of keyframes across all lanes",
		},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "otfx_render_duration_seconds",
			Help:    "Time to build or rasterize a timeline scene",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"stage"}, // "scene", "raster", "describe"
	)
)

// OSC metrics
var (
	OSCMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otfx_osc_messages_total",
			Help: "Total number of OSC messages sent",
		},
		[]string{"address", "status"},
	)
)

// UpdateEditorGauges samples the size of an editor's project.
func UpdateEditorGauges(ed *timeline.Editor) {
	regions, keys := 0, 0
	for _, t := range ed.Tracks {
		regions += len(t.Regions)
	}
	for _, l := range ed.Lanes {
		keys += len(l.Keyframes)
	}
	EditorTracks.Set(float64(len(ed.Tracks)))
	EditorRegions.Set(float64(regions))
	EditorLanes.Set(float64(len(ed.Lanes)))
	EditorKeyframes.Set(float64(keys))
}

// ObserveRender records the time since start for a render stage.
func ObserveRender(stage string, start time.Time) {
	RenderDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Status maps an error to a "success"/"error" label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
