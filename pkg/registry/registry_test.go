package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/sexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
# two effects
effect blur "Gaussian Blur" {
	radius: float [0, 64] = 4;
	center: xy = (0.25, 0.75);
}

effect strobe {
	rate: int [1, 30] = 10;
	on: bool = true;
	caption: string = "flash";
	gain: float;
}
`

func TestParseCatalog(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	c, err := p.ParseString(sampleCatalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"blur", "strobe"}, c.Names())

	blur, ok := c.Lookup("blur")
	require.True(t, ok)
	assert.Equal(t, "Gaussian Blur", blur.Label)
	radius, ok := blur.Param("radius")
	require.True(t, ok)
	assert.Equal(t, ParamFloat, radius.Type)
	assert.Equal(t, 0.0, radius.Min)
	assert.Equal(t, 64.0, radius.Max)
	assert.Equal(t, 4.0, radius.Default)
	center, _ := blur.Param("center")
	assert.Equal(t, [2]float64{0.25, 0.75}, center.Default)

	strobe, _ := c.Lookup("strobe")
	assert.Equal(t, "strobe", strobe.Label)
	rate, _ := strobe.Param("rate")
	assert.Equal(t, 10, rate.Default)
	on, _ := strobe.Param("on")
	assert.Equal(t, true, on.Default)
	caption, _ := strobe.Param("caption")
	assert.Equal(t, "flash", caption.Default)
	gain, _ := strobe.Param("gain")
	assert.Equal(t, 0.0, gain.Min)
	assert.Equal(t, 1.0, gain.Max)
	assert.Equal(t, 0.0, gain.Default)
}

func TestParseCatalogErrors(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `effect { }`},
		{"unknown type", `effect a { x: colour; }`},
		{"inverted range", `effect a { x: float [5, 1]; }`},
		{"type mismatch", `effect a { x: bool = 3; }`},
		{"duplicate param", `effect a { x: float; x: int; }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestNormalize(t *testing.T) {
	f := ParamSpec{Name: "r", Type: ParamFloat, Min: 0, Max: 64, Default: 16.0}
	n, ok := f.Normalize(16.0)
	require.True(t, ok)
	assert.InDelta(t, 0.25, n, 1e-12)
	assert.InDelta(t, 0.25, f.NormalizedDefault(), 1e-12)
	assert.InDelta(t, 32.0, f.Denormalize(0.5), 1e-12)

	n, _ = f.Normalize(500.0)
	assert.Equal(t, 1.0, n)

	i := ParamSpec{Name: "n", Type: ParamInt, Min: 2, Max: 12}
	assert.Equal(t, 7, i.Denormalize(0.5))

	b := ParamSpec{Name: "on", Type: ParamBool}
	n, ok = b.Normalize(true)
	assert.True(t, ok)
	assert.Equal(t, 1.0, n)
	assert.Equal(t, false, b.Denormalize(0.2))

	xy := ParamSpec{Name: "c", Type: ParamXY, Default: [2]float64{0.1, 0.2}}
	assert.False(t, xy.Automatable())
	_, ok = xy.Normalize([2]float64{0, 0})
	assert.False(t, ok)
	assert.Equal(t, 0.5, xy.NormalizedDefault())
}

func TestDefaultsAreFreshCopies(t *testing.T) {
	spec := EffectSpec{Name: "z", Params: []ParamSpec{
		{Name: "scale", Type: ParamFloat, Max: 8, Default: 1.0},
		{Name: "center", Type: ParamXY, Default: [2]float64{0.5, 0.5}},
	}}
	a := spec.Defaults()
	b := spec.Defaults()
	a["center"].([]float64)[0] = 9
	assert.Equal(t, []float64{0.5, 0.5}, b["center"])
	assert.Equal(t, 1.0, b["scale"])
}

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	require.Greater(t, c.Len(), 10)
	for _, name := range c.Names() {
		spec, ok := c.Lookup(name)
		require.True(t, ok)
		assert.NotEmpty(t, spec.Params, name)
		for _, p := range spec.Params {
			assert.LessOrEqual(t, p.Min, p.Max, "%s.%s", name, p.Name)
		}
	}
	_, ok := c.Lookup("blur")
	assert.True(t, ok)
}

func TestCatalogAddReplaces(t *testing.T) {
	c := NewCatalog(EffectSpec{Name: "a"}, EffectSpec{Name: "b"})
	c.Add(EffectSpec{Name: "a", Label: "Again"})
	assert.Equal(t, []string{"a", "b"}, c.Names())
	a, _ := c.Lookup("a")
	assert.Equal(t, "Again", a.Label)
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.fxcat")
	require.NoError(t, os.WriteFile(path, []byte(`effect wobble { freq: float [0, 10] = 2; }`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	_, ok := c.Lookup("wobble")
	assert.True(t, ok)
	_, ok = c.Lookup("blur")
	assert.True(t, ok)
	assert.Equal(t, Builtin().Len()+1, c.Len())
}

func TestParseSexpCatalog(t *testing.T) {
	c, err := ParseSexp(`(catalog
  (effect wave
    (label Wave Warp)
    (param amp float (range 0 2) (default 0.5))
    (param steps int (range 1 9) (default 3))
    (param center xy (default 0.1 0.9))))`)
	require.NoError(t, err)

	spec, ok := c.Lookup("wave")
	require.True(t, ok)
	assert.Equal(t, "Wave Warp", spec.Label)
	require.Len(t, spec.Params, 3)
	assert.Equal(t, 0.5, spec.Params[0].Default)
	assert.Equal(t, 2.0, spec.Params[0].Max)
	assert.Equal(t, 3, spec.Params[1].Default)
	assert.Equal(t, [2]float64{0.1, 0.9}, spec.Params[2].Default)
}

func TestSexpAtom(t *testing.T) {
	assert.Equal(t, "blur", atom(sexp.Symbol("blur")))
	assert.Equal(t, "Gaussian Blur", atom(sexp.Symbol(`"Gaussian Blur"`)))
	assert.Equal(t, "", atom(sexp.List{sexp.Symbol("label")}))
	assert.Equal(t, "", atom(nil))
	assert.Equal(t, "0.5 3", joinAtoms([]sexp.Sexp{sexp.Symbol("0.5"), sexp.Symbol("3")}))
}
