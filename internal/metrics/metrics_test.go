package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

// gauge reads a metric without labels from the default registry.
func gauge(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

// samples returns the observation count of a histogram vector series.
func samples(t *testing.T, name, label, value string) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetHistogram().GetSampleCount()
				}
			}
		}
	}
	return 0
}

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"StoreQueryTotal", StoreQueryTotal},
		{"StoreQueryDuration", StoreQueryDuration},
		{"StoreSnapshotBytes", StoreSnapshotBytes},
		{"EditorTracks", EditorTracks},
		{"EditorKeyframes", EditorKeyframes},
		{"RenderDuration", RenderDuration},
		{"OSCMessagesTotal", OSCMessagesTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.metric)
		})
	}
}

func TestUpdateEditorGauges(t *testing.T) {
	ed := timeline.New(nil, nil)
	tr := ed.AddTrack("a", timeline.TrackEffects)
	ed.AddTrack("b", timeline.TrackVideo)
	r := ed.AddRegion(tr.ID, 0, 10)
	ed.AddAutomationLane(r.ID, 0, "x")

	UpdateEditorGauges(ed)
	assert.Equal(t, 2.0, gauge(t, "otfx_editor_tracks"))
	assert.Equal(t, 1.0, gauge(t, "otfx_editor_regions"))
	assert.Equal(t, 1.0, gauge(t, "otfx_editor_lanes"))
	assert.Equal(t, 2.0, gauge(t, "otfx_editor_keyframes"))
}

func TestObserveRender(t *testing.T) {
	before := samples(t, "otfx_render_duration_seconds", "stage", "describe")
	ObserveRender("describe", time.Now())
	assert.Equal(t, before+1, samples(t, "otfx_render_duration_seconds", "stage", "describe"))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(errors.New("x")))
}
