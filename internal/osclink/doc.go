// Package osclink mirrors editor state to an external renderer over OSC.
//
// A Link is a timeline.Observer: register it with the editor and playhead,
// selection and notice changes are sent as they happen. SendFrame pushes the
// resolved effect parameters of one frame. Control receives playhead
// requests from the renderer side.
//
// Addresses sent:
//
//	/otfx/playhead            i frame
//	/otfx/region/selected     i regionID (-1 when deselected)
//	/otfx/notice              s message
//	/otfx/frame               i frame, i regions, s description JSON
//	/otfx/param               i regionID, s effect, s param, f value
//
// Addresses received by Control:
//
//	/otfx/playhead/set        i frame
//	/otfx/ping
package osclink
