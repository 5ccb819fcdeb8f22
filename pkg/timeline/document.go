package timeline

import (
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DocumentVersion is written into every serialized document.
const DocumentVersion = 1

// Document is the persisted form of an editor. Pointer fields are optional
// and fall back to defaults when absent.
type Document struct {
	Version     int      `json:"version"`
	TotalFrames *int     `json:"totalFrames,omitempty"`
	FPS         *float64 `json:"fps,omitempty"`

	Playhead int  `json:"playhead"`
	InPoint  *int `json:"inPoint"`
	OutPoint *int `json:"outPoint"`

	Zoom         *float64 `json:"zoom,omitempty"`
	ScrollX      float64  `json:"scrollX"`
	LanesVisible *bool    `json:"lanesVisible,omitempty"`

	SelectedRegionID    *int            `json:"selectedRegionId"`
	SelectedTrackID     *int            `json:"selectedTrackId"`
	SelectedLaneID      *int            `json:"selectedLaneId"`
	SelectedBreakpoints []BreakpointRef `json:"selectedBreakpoints,omitempty"`

	Tracks          []TrackDoc `json:"tracks"`
	AutomationLanes []LaneDoc  `json:"automationLanes"`
}

// TrackDoc is a persisted track.
type TrackDoc struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Type    TrackType   `json:"type"`
	Muted   bool        `json:"muted"`
	Soloed  bool        `json:"soloed"`
	Height  *float64    `json:"height,omitempty"`
	Regions []RegionDoc `json:"regions"`
}

// RegionDoc is a persisted region.
type RegionDoc struct {
	ID         int      `json:"id"`
	StartFrame int      `json:"startFrame"`
	EndFrame   int      `json:"endFrame"`
	Effects    []Effect `json:"effects"`
	Label      string   `json:"label,omitempty"`
	Color      string   `json:"color,omitempty"`
	Mask       *Mask    `json:"mask,omitempty"`
}

// LaneDoc is a persisted automation lane.
type LaneDoc struct {
	ID          int                   `json:"id"`
	RegionID    int                   `json:"regionId"`
	EffectIndex int                   `json:"effectIndex"`
	ParamName   string                `json:"paramName"`
	Color       string                `json:"color,omitempty"`
	Keyframes   []automation.Keyframe `json:"keyframes"`
	Visible     *bool                 `json:"visible,omitempty"`
	Height      *float64              `json:"height,omitempty"`
}

// Document captures the current state.
func (e *Editor) Document() *Document {
	total := e.TotalFrames()
	fps := e.FPS
	zoom := e.View.Zoom
	lanesVisible := e.LanesVisible
	doc := &Document{
		Version:             DocumentVersion,
		TotalFrames:         &total,
		FPS:                 &fps,
		Playhead:            e.Playhead,
		InPoint:             framePtr(e.InPoint),
		OutPoint:            framePtr(e.OutPoint),
		Zoom:                &zoom,
		ScrollX:             e.View.ScrollX,
		LanesVisible:        &lanesVisible,
		SelectedRegionID:    framePtr(e.SelectedRegionID),
		SelectedTrackID:     framePtr(e.SelectedTrackID),
		SelectedLaneID:      framePtr(e.SelectedLaneID),
		SelectedBreakpoints: append([]BreakpointRef(nil), e.SelectedBreakpoints...),
		Tracks:              make([]TrackDoc, 0, len(e.Tracks)),
		AutomationLanes:     make([]LaneDoc, 0, len(e.Lanes)),
	}
	for _, t := range e.Tracks {
		h := t.Height
		td := TrackDoc{
			ID:      t.ID,
			Name:    t.Name,
			Type:    t.Type,
			Muted:   t.Muted,
			Soloed:  t.Soloed,
			Height:  &h,
			Regions: make([]RegionDoc, 0, len(t.Regions)),
		}
		for _, r := range t.Regions {
			td.Regions = append(td.Regions, RegionDoc{
				ID:         r.ID,
				StartFrame: r.StartFrame,
				EndFrame:   r.EndFrame,
				Effects:    append([]Effect(nil), r.Effects...),
				Label:      r.Label,
				Color:      r.Color,
				Mask:       r.Mask,
			})
		}
		doc.Tracks = append(doc.Tracks, td)
	}
	for _, l := range e.Lanes {
		visible := l.Visible
		h := l.Height
		doc.AutomationLanes = append(doc.AutomationLanes, LaneDoc{
			ID:          l.ID,
			RegionID:    l.RegionID,
			EffectIndex: l.EffectIndex,
			ParamName:   l.ParamName,
			Color:       l.Color,
			Keyframes:   append([]automation.Keyframe(nil), l.Keyframes...),
			Visible:     &visible,
			Height:      &h,
		})
	}
	return doc
}

// Serialize encodes the editor state as JSON.
func (e *Editor) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(e.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Deserialize replaces the editor state with a JSON document. Missing or
// out of range fields take their defaults; only undecodable input fails,
// in which case the editor is left untouched.
func (e *Editor) Deserialize(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	e.Load(&doc)
	return nil
}

// Load replaces the editor state with doc.
func (e *Editor) Load(doc *Document) {
	s := newState()
	if doc.TotalFrames != nil && *doc.TotalFrames >= 2 {
		s.View.TotalFrames = *doc.TotalFrames
	}
	if doc.FPS != nil && ValidFPS(*doc.FPS) {
		s.FPS = *doc.FPS
	}
	if doc.LanesVisible != nil {
		s.LanesVisible = *doc.LanesVisible
	}
	s.View.HeaderWidth = e.View.HeaderWidth
	s.View.VisibleWidth = e.View.VisibleWidth
	if doc.Zoom != nil {
		s.View.Zoom = *doc.Zoom
	}
	s.View.ScrollX = doc.ScrollX
	s.View.ClampScroll()

	e.State = s
	last := e.LastFrame()

	maxTrack, maxRegion, maxLane := -1, -1, -1
	for _, td := range doc.Tracks {
		t := &Track{
			ID:     td.ID,
			Name:   td.Name,
			Type:   td.Type,
			Muted:  td.Muted,
			Soloed: td.Soloed,
			Height: DefaultTrackHeight,
		}
		if t.Type != TrackVideo {
			t.Type = TrackEffects
		}
		if td.Height != nil && *td.Height > 0 {
			t.Height = *td.Height
		}
		for _, rd := range td.Regions {
			r := &Region{
				ID:         rd.ID,
				TrackID:    t.ID,
				StartFrame: rd.StartFrame,
				EndFrame:   rd.EndFrame,
				Effects:    rd.Effects,
				Label:      rd.Label,
				Color:      rd.Color,
				Mask:       rd.Mask,
			}
			for i := range r.Effects {
				if r.Effects[i].Params == nil {
					r.Effects[i].Params = map[string]any{}
				}
			}
			e.clampRegion(r)
			t.Regions = append(t.Regions, r)
			maxRegion = max(maxRegion, r.ID)
		}
		e.Tracks = append(e.Tracks, t)
		maxTrack = max(maxTrack, t.ID)
	}

	for _, ld := range doc.AutomationLanes {
		l := &Lane{
			ID:          ld.ID,
			RegionID:    ld.RegionID,
			EffectIndex: ld.EffectIndex,
			ParamName:   ld.ParamName,
			Color:       ld.Color,
			Visible:     true,
			Height:      DefaultLaneHeight,
		}
		if l.Color == "" {
			l.Color = LaneColor(l.ID)
		}
		if ld.Visible != nil {
			l.Visible = *ld.Visible
		}
		if ld.Height != nil && *ld.Height > 0 {
			l.Height = *ld.Height
		}
		for _, k := range ld.Keyframes {
			if k.Frame < 0 {
				k.Frame = 0
			}
			if k.Frame > last {
				k.Frame = last
			}
			k.Value = automation.Clamp01(k.Value)
			k.Curve = automation.ParseCurve(string(k.Curve))
			l.Keyframes = append(l.Keyframes, k)
		}
		automation.SortKeyframes(l.Keyframes)
		e.Lanes = append(e.Lanes, l)
		maxLane = max(maxLane, l.ID)
	}

	e.nextTrackID = maxTrack + 1
	e.nextRegionID = maxRegion + 1
	e.nextLaneID = maxLane + 1

	e.Playhead = e.ClampFrame(doc.Playhead)
	if doc.InPoint != nil && *doc.InPoint >= 0 {
		e.InPoint = e.ClampFrame(*doc.InPoint)
	}
	if doc.OutPoint != nil && *doc.OutPoint >= 0 {
		e.SetOutPoint(*doc.OutPoint)
	}
	if doc.SelectedRegionID != nil && e.Region(*doc.SelectedRegionID) != nil {
		e.SelectedRegionID = *doc.SelectedRegionID
	}
	if doc.SelectedTrackID != nil {
		e.SelectTrack(*doc.SelectedTrackID)
	}
	if doc.SelectedLaneID != nil {
		e.SelectLane(*doc.SelectedLaneID)
	}
	e.SetBreakpointSelection(doc.SelectedBreakpoints)
	e.SelectedBreakpoints = e.SelectedBreakpointsSorted()
}

// SelectedBreakpointsSorted returns the valid selection ordered by lane ID
// then index.
func (e *Editor) SelectedBreakpointsSorted() []BreakpointRef {
	sel := e.ValidSelection()
	lanes := make([]int, 0, len(sel))
	for laneID := range sel {
		lanes = append(lanes, laneID)
	}
	sort.Ints(lanes)
	var out []BreakpointRef
	for _, laneID := range lanes {
		for _, idx := range sel[laneID] {
			out = append(out, BreakpointRef{LaneID: laneID, Index: idx})
		}
	}
	return out
}

func framePtr(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}
