package timeline

import (
	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
)

// FrameDescription is what a renderer needs to produce one output frame:
// every active region covering the frame, with its effect chain and
// automation.
type FrameDescription struct {
	Frame   int                 `json:"frame"`
	Regions []RegionDescription `json:"regions"`
}

// RegionDescription is one region's contribution to a frame.
type RegionDescription struct {
	RegionID        int                 `json:"regionId"`
	TrackID         int                 `json:"trackId"`
	StartFrame      int                 `json:"startFrame"`
	EndFrame        int                 `json:"endFrame"`
	Mask            *Mask               `json:"mask,omitempty"`
	Effects         []EffectDescription `json:"effects"`
	AutomationLanes []LaneDescription   `json:"automationLanes"`
}

// EffectDescription is an effect with its static parameters.
type EffectDescription struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// LaneDescription is a lane flattened for export. Keyframes are
// [frame, value] pairs and Curve is the first keyframe's curve. Value is the
// lane sampled at the described frame.
type LaneDescription struct {
	EffectIndex int              `json:"effectIndex"`
	Param       string           `json:"param"`
	Keyframes   [][2]float64     `json:"keyframes"`
	Curve       automation.Curve `json:"curve"`
	Value       float64          `json:"value"`
}

// DescribeFrame builds the render description for frame. Bypassed effects
// are left out and lane effect indices refer to the exported effect list.
func (e *Editor) DescribeFrame(frame int) FrameDescription {
	frame = e.ClampFrame(frame)
	fd := FrameDescription{Frame: frame, Regions: []RegionDescription{}}
	for _, r := range e.ActiveRegions() {
		if !r.Contains(frame) {
			continue
		}
		fd.Regions = append(fd.Regions, e.describeRegion(r, frame))
	}
	return fd
}

// DescribeRegion exports a region regardless of mute state or frame range.
func (e *Editor) DescribeRegion(regionID, frame int) (RegionDescription, bool) {
	r := e.Region(regionID)
	if r == nil {
		return RegionDescription{}, false
	}
	return e.describeRegion(r, e.ClampFrame(frame)), true
}

func (e *Editor) describeRegion(r *Region, frame int) RegionDescription {
	rd := RegionDescription{
		RegionID:        r.ID,
		TrackID:         r.TrackID,
		StartFrame:      r.StartFrame,
		EndFrame:        r.EndFrame,
		Mask:            r.Mask,
		Effects:         []EffectDescription{},
		AutomationLanes: []LaneDescription{},
	}

	exported := make(map[int]int, len(r.Effects))
	for i, fx := range r.Effects {
		if fx.Bypassed {
			continue
		}
		exported[i] = len(rd.Effects)
		params := make(map[string]any, len(fx.Params))
		for k, v := range fx.Params {
			params[k] = v
		}
		rd.Effects = append(rd.Effects, EffectDescription{Name: fx.Name, Params: params})
	}

	for _, l := range e.LanesForRegion(r.ID) {
		idx, ok := exported[l.EffectIndex]
		if !ok || len(l.Keyframes) == 0 {
			continue
		}
		ld := LaneDescription{
			EffectIndex: idx,
			Param:       l.ParamName,
			Keyframes:   make([][2]float64, 0, len(l.Keyframes)),
			Curve:       l.Keyframes[0].Curve,
		}
		for _, k := range l.Keyframes {
			ld.Keyframes = append(ld.Keyframes, [2]float64{float64(k.Frame), k.Value})
		}
		ld.Value, _ = l.Sample(frame)
		rd.AutomationLanes = append(rd.AutomationLanes, ld)
	}
	return rd
}

// ResolvedParams returns a region effect's parameters with automation
// applied at frame, denormalized through the registry. Lanes whose
// parameter is unknown to the registry write their normalized value.
func (e *Editor) ResolvedParams(regionID, effectIndex, frame int) map[string]any {
	r := e.Region(regionID)
	if r == nil || effectIndex < 0 || effectIndex >= len(r.Effects) {
		return nil
	}
	out := make(map[string]any, len(r.Effects[effectIndex].Params))
	for k, v := range r.Effects[effectIndex].Params {
		out[k] = v
	}
	for _, l := range e.LanesForRegion(regionID) {
		if l.EffectIndex != effectIndex {
			continue
		}
		v, ok := l.Sample(frame)
		if !ok {
			continue
		}
		if spec, ok := e.paramSpec(r, effectIndex, l.ParamName); ok && spec.Automatable() {
			out[l.ParamName] = spec.Denormalize(v)
			continue
		}
		out[l.ParamName] = v
	}
	return out
}
