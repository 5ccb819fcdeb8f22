package timeline

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads successive hues so neighbouring lanes stay distinct.
const goldenAngle = 137.50776405003785

// LaneColor returns the hex color assigned to the n-th lane.
func LaneColor(n int) string {
	h := math.Mod(200+float64(n)*goldenAngle, 360)
	return colorful.Hsv(h, 0.62, 0.95).Hex()
}
