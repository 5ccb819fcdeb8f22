package timeline

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
)

// Copy stores the selected breakpoints on the clipboard as offsets from the
// earliest selected frame and returns how many were copied. An empty
// selection leaves the clipboard untouched.
func (e *Editor) Copy() int {
	type picked struct {
		laneID int
		k      automation.Keyframe
	}
	var items []picked
	minFrame := 0
	for laneID, indices := range e.ValidSelection() {
		l := e.Lane(laneID)
		for _, idx := range indices {
			k := l.Keyframes[idx]
			if len(items) == 0 || k.Frame < minFrame {
				minFrame = k.Frame
			}
			items = append(items, picked{laneID, k})
		}
	}
	if len(items) == 0 {
		return 0
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].k.Frame != items[j].k.Frame {
			return items[i].k.Frame < items[j].k.Frame
		}
		return items[i].laneID < items[j].laneID
	})

	e.Clipboard = e.Clipboard[:0]
	for _, it := range items {
		e.Clipboard = append(e.Clipboard, ClipboardItem{
			LaneID: it.laneID,
			Offset: it.k.Frame - minFrame,
			Value:  it.k.Value,
			Curve:  it.k.Curve,
			CP1:    copyPoint(it.k.CP1),
			CP2:    copyPoint(it.k.CP2),
		})
	}
	e.obs.Notice(fmt.Sprintf("%d breakpoints copied", len(items)))
	return len(items)
}

// Paste inserts the clipboard at the playhead. The selected lane receives
// every item when one is selected; otherwise each item returns to the lane
// it was copied from. Pasted keyframes become the selection. It returns the
// number of keyframes inserted.
func (e *Editor) Paste() int {
	if len(e.Clipboard) == 0 {
		return 0
	}
	target := e.Lane(e.SelectedLaneID)

	minOffset := e.Clipboard[0].Offset
	for _, it := range e.Clipboard {
		if it.Offset < minOffset {
			minOffset = it.Offset
		}
	}

	type placed struct {
		laneID int
		frame  int
	}
	var inserted []placed
	touched := map[int]bool{}
	for _, it := range e.Clipboard {
		laneID := it.LaneID
		if target != nil {
			laneID = target.ID
		}
		l := e.Lane(laneID)
		if l == nil {
			continue
		}
		k := automation.Keyframe{
			Frame: e.ClampFrame(e.Playhead + it.Offset - minOffset),
			Value: automation.Clamp01(it.Value),
			Curve: it.Curve,
			CP1:   copyPoint(it.CP1),
			CP2:   copyPoint(it.CP2),
		}
		if !k.Curve.Valid() {
			k.Curve = automation.CurveLinear
		}
		l.Keyframes = append(l.Keyframes, k)
		touched[laneID] = true
		inserted = append(inserted, placed{laneID, k.Frame})
	}

	// Re-sort, then select the pasted points by walking each lane from the
	// back so duplicates of an existing frame resolve to the pasted copy.
	e.SelectedBreakpoints = nil
	for laneID := range touched {
		l := e.Lane(laneID)
		automation.SortKeyframes(l.Keyframes)
	}
	claimed := map[BreakpointRef]bool{}
	for _, p := range inserted {
		l := e.Lane(p.laneID)
		for i := len(l.Keyframes) - 1; i >= 0; i-- {
			ref := BreakpointRef{LaneID: p.laneID, Index: i}
			if l.Keyframes[i].Frame == p.frame && !claimed[ref] {
				claimed[ref] = true
				e.SelectedBreakpoints = append(e.SelectedBreakpoints, ref)
				break
			}
		}
	}
	return len(inserted)
}

func copyPoint(p *[2]float64) *[2]float64 {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
