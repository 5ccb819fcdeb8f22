package timeline

import "github.com/OpenTraceLab/OpenTraceFX/pkg/automation"

// TrackType distinguishes source video tracks from effect tracks.
type TrackType string

const (
	TrackVideo   TrackType = "video"
	TrackEffects TrackType = "effects"
)

// Layout defaults in pixels.
const (
	DefaultTrackHeight = 64.0
	DefaultLaneHeight  = 48.0
	DefaultHeaderWidth = 160.0
)

// Defaults for a new timeline.
const (
	DefaultTotalFrames = 900
	DefaultFPS         = 30.0
	// MaxFPS bounds the playback rate.
	MaxFPS = 240.0
)

// ValidFPS reports whether fps is a usable playback rate.
func ValidFPS(fps float64) bool {
	return fps > 0 && fps <= MaxFPS
}

// NoFrame marks an unset in or out point.
const NoFrame = -1

// None marks an empty selection slot.
const None = -1

// Track is a horizontal row of regions.
type Track struct {
	ID      int
	Name    string
	Type    TrackType
	Muted   bool
	Soloed  bool
	Height  float64
	Regions []*Region
}

// Effect is one entry in a region's effect chain. Params are opaque to the
// timeline.
type Effect struct {
	Name     string         `json:"name"`
	Params   map[string]any `json:"params"`
	Bypassed bool           `json:"bypassed,omitempty"`
}

// Mask is a rectangle in normalized frame coordinates.
type Mask struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Region places an effect chain on a track for [StartFrame, EndFrame].
type Region struct {
	ID         int
	TrackID    int
	StartFrame int
	EndFrame   int
	Effects    []Effect
	Label      string
	Color      string
	Mask       *Mask
}

// Duration is the region length in frames.
func (r *Region) Duration() int {
	return r.EndFrame - r.StartFrame
}

// Contains reports whether frame falls inside the region, both ends included.
func (r *Region) Contains(frame int) bool {
	return frame >= r.StartFrame && frame <= r.EndFrame
}

// Lane is an automation lane driving one parameter of one effect of a
// region. RegionID is a lookup key; the region may no longer exist.
type Lane struct {
	ID          int
	RegionID    int
	EffectIndex int
	ParamName   string
	Color       string
	Keyframes   []automation.Keyframe
	Visible     bool
	Height      float64
}

// Sample returns the lane value at frame.
func (l *Lane) Sample(frame int) (float64, bool) {
	return automation.Sample(l.Keyframes, frame)
}

// BreakpointRef addresses a keyframe by lane and index. Indices go stale
// after the lane is sorted or spliced.
type BreakpointRef struct {
	LaneID int `json:"laneId"`
	Index  int `json:"index"`
}

// ClipboardItem is a copied keyframe, positioned relative to the earliest
// copied frame.
type ClipboardItem struct {
	LaneID int
	Offset int
	Value  float64
	Curve  automation.Curve
	CP1    *[2]float64
	CP2    *[2]float64
}
