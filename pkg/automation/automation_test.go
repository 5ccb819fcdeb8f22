package automation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearLane() []Keyframe {
	return []Keyframe{
		{Frame: 0, Value: 0, Curve: CurveLinear},
		{Frame: 10, Value: 1, Curve: CurveLinear},
	}
}

func TestSampleLinearMidpoint(t *testing.T) {
	v, ok := Sample(linearLane(), 5)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)
}

func TestSampleEmptyLane(t *testing.T) {
	_, ok := Sample(nil, 3)
	assert.False(t, ok)
}

func TestSampleFlatExtrapolation(t *testing.T) {
	keys := []Keyframe{
		{Frame: 10, Value: 0.25, Curve: CurveLinear},
		{Frame: 20, Value: 0.75, Curve: CurveLinear},
	}
	before, _ := Sample(keys, 0)
	after, _ := Sample(keys, 500)
	assert.Equal(t, 0.25, before)
	assert.Equal(t, 0.75, after)
}

func TestSampleHitsKeyframeValues(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0.1, Curve: CurveEaseIn},
		{Frame: 7, Value: 0.9, Curve: CurveStep},
		{Frame: 13, Value: 0.3, Curve: CurveBezier},
		{Frame: 20, Value: 0.6, Curve: CurveSine},
		{Frame: 31, Value: 0.0, Curve: CurveEaseInOut},
		{Frame: 40, Value: 1.0, Curve: CurveLinear},
	}
	for _, k := range keys {
		v, ok := Sample(keys, k.Frame)
		require.True(t, ok)
		assert.InDelta(t, k.Value, v, 1e-9, "frame %d", k.Frame)
	}
}

func TestSampleCoincidentFrames(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0, Curve: CurveLinear},
		{Frame: 5, Value: 0.2, Curve: CurveLinear},
		{Frame: 5, Value: 0.8, Curve: CurveLinear},
		{Frame: 10, Value: 1, Curve: CurveLinear},
	}
	v, ok := Sample(keys, 5)
	require.True(t, ok)
	assert.False(t, math.IsNaN(v))
	assert.Equal(t, 0.8, v)
}

func TestKernels(t *testing.T) {
	tests := []struct {
		curve Curve
		t     float64
		want  float64
	}{
		{CurveLinear, 0.25, 0.25},
		{CurveEaseIn, 0.5, 0.25},
		{CurveEaseOut, 0.5, 0.75},
		{CurveEaseInOut, 0.25, 0.125},
		{CurveEaseInOut, 0.75, 0.875},
		{CurveEaseInOut, 0.5, 0.5},
		{CurveSine, 0.5, 0.5},
		{CurveSine, 1, 1},
		{CurveStep, 0.99, 0},
		{CurveBezier, 0.5, 0.5},
		{CurveBezier, 0, 0},
		{CurveBezier, 1, 1},
		{Curve("bogus"), 0.4, 0.4},
	}
	for _, tt := range tests {
		t.Run(string(tt.curve), func(t *testing.T) {
			got := Interpolate(Keyframe{Curve: tt.curve}, 0, 1, tt.t)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestStepHoldsUntilNextKeyframe(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0.2, Curve: CurveStep},
		{Frame: 10, Value: 0.9, Curve: CurveLinear},
	}
	v, _ := Sample(keys, 9)
	assert.Equal(t, 0.2, v)
	v, _ = Sample(keys, 10)
	assert.Equal(t, 0.9, v)
}

func TestBezierCustomControlPoints(t *testing.T) {
	// Control points on the diagonal give a straight line.
	cp1 := [2]float64{1.0 / 3, 1.0 / 3}
	cp2 := [2]float64{2.0 / 3, 2.0 / 3}
	k := Keyframe{Curve: CurveBezier, CP1: &cp1, CP2: &cp2}
	for _, x := range []float64{0.1, 0.3, 0.6, 0.9} {
		assert.InDelta(t, x, Interpolate(k, 0, 1, x), 1e-6)
	}
}

func TestBezierDefaultIsMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := CubicBezierEase(DefaultCP1, DefaultCP2, float64(i)/100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestSimplifyZeroToleranceUnchanged(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0},
		{Frame: 1, Value: 0.1},
		{Frame: 2, Value: 0.2},
		{Frame: 3, Value: 0.3},
	}
	got := Simplify(keys, 0)
	assert.Equal(t, keys, got)
}

func TestSimplifyCollinearCollapses(t *testing.T) {
	var keys []Keyframe
	for i := 0; i <= 10; i++ {
		keys = append(keys, Keyframe{Frame: i * 3, Value: float64(i) / 10, Curve: CurveLinear})
	}
	got := Simplify(keys, 0.001)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Frame)
	assert.Equal(t, 30, got[1].Frame)
}

func TestSimplifyKeepsPeak(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0},
		{Frame: 5, Value: 0.52},
		{Frame: 10, Value: 1, Curve: CurveStep},
		{Frame: 15, Value: 0.47},
		{Frame: 20, Value: 0},
	}
	got := Simplify(keys, 0.1)
	require.Len(t, got, 3)
	assert.Equal(t, 10, got[1].Frame)
	assert.Equal(t, CurveStep, got[1].Curve)
}

func TestSimplifyNeverGrowsAndStaysSorted(t *testing.T) {
	var keys []Keyframe
	for i := 0; i < 200; i++ {
		keys = append(keys, Keyframe{Frame: i, Value: (math.Sin(float64(i)/7) + 1) / 2})
	}
	for _, tol := range []float64{0.001, 0.01, 0.1, 0.5} {
		got := Simplify(keys, tol)
		assert.LessOrEqual(t, len(got), len(keys))
		assert.True(t, Sorted(got))
	}
}

func TestSimplifyShortInput(t *testing.T) {
	keys := linearLane()
	assert.Equal(t, keys, Simplify(keys, 10))
}

func TestInsertShapeSquare(t *testing.T) {
	got := InsertShape(nil, ShapeSquare, 0, 10, 2)
	require.Len(t, got, 3)
	frames := []int{got[0].Frame, got[1].Frame, got[2].Frame}
	values := []float64{got[0].Value, got[1].Value, got[2].Value}
	assert.Equal(t, []int{0, 5, 10}, frames)
	assert.Equal(t, []float64{1, 1, 0}, values)
	for _, k := range got {
		assert.Equal(t, CurveLinear, k.Curve)
	}
}

func TestInsertShapeReplacesRange(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0.5},
		{Frame: 12, Value: 0.5},
		{Frame: 18, Value: 0.5},
		{Frame: 40, Value: 0.5},
	}
	got := InsertShape(keys, ShapeRampUp, 10, 20, 4)
	require.Len(t, got, 2+5)
	assert.True(t, Sorted(got))
	assert.Equal(t, 0, got[0].Frame)
	assert.Equal(t, 40, got[len(got)-1].Frame)
	for _, k := range got[1 : len(got)-1] {
		assert.GreaterOrEqual(t, k.Frame, 10)
		assert.LessOrEqual(t, k.Frame, 20)
	}
}

func TestInsertShapeValuesClamped(t *testing.T) {
	for _, s := range Shapes {
		t.Run(string(s), func(t *testing.T) {
			got := InsertShape(nil, s, 100, 50, 16)
			assert.Len(t, got, 17)
			assert.Equal(t, 50, got[0].Frame)
			assert.Equal(t, 100, got[len(got)-1].Frame)
			for _, k := range got {
				assert.GreaterOrEqual(t, k.Value, 0.0)
				assert.LessOrEqual(t, k.Value, 1.0)
			}
		})
	}
}

func TestInsertShapeDenseResolutionDedupes(t *testing.T) {
	got := InsertShape(nil, ShapeRampUp, 0, 2, 8)
	assert.Len(t, got, 3)
	assert.True(t, Sorted(got))
}

func TestMoveKeyframeReresolvesIndex(t *testing.T) {
	keys := []Keyframe{
		{Frame: 0, Value: 0.1},
		{Frame: 10, Value: 0.2},
		{Frame: 20, Value: 0.3},
	}
	idx := MoveKeyframe(keys, 0, 25, 0.9)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 25, keys[idx].Frame)
	assert.Equal(t, 0.9, keys[idx].Value)
	assert.True(t, Sorted(keys))

	// Frames are now 10, 20, 25.
	idx = MoveKeyframe(keys, 2, 5, 0.4)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 0.4, keys[idx].Value)
	assert.Equal(t, []int{5, 10, 20}, []int{keys[0].Frame, keys[1].Frame, keys[2].Frame})

	assert.Equal(t, -1, MoveKeyframe(keys, 7, 0, 0))
}

func TestInsertKeyframeIndex(t *testing.T) {
	keys := linearLane()
	keys, idx := InsertKeyframe(keys, Keyframe{Frame: 4, Value: 0.7})
	assert.Equal(t, 1, idx)
	assert.True(t, Sorted(keys))
}

func TestRemoveIndicesDescending(t *testing.T) {
	keys := []Keyframe{{Frame: 0}, {Frame: 1}, {Frame: 2}, {Frame: 3}, {Frame: 4}}
	got := RemoveIndices(keys, []int{1, 3, 3, 9})
	assert.Equal(t, []Keyframe{{Frame: 0}, {Frame: 2}, {Frame: 4}}, got)
}

func TestSetStepOverwrites(t *testing.T) {
	keys := linearLane()
	keys = SetStep(keys, 10, 0.3)
	keys = SetStep(keys, 5, 0.6)
	require.Len(t, keys, 3)
	assert.Equal(t, CurveStep, keys[1].Curve)
	assert.Equal(t, 0.3, keys[2].Value)
	assert.Equal(t, CurveStep, keys[2].Curve)
}
