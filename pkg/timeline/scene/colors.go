package scene

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorTheme selects a timeline palette
type ColorTheme int

const (
	ThemeDark ColorTheme = iota
	ThemeLight
	ThemeNord
	ThemeHighContrast
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[ColorTheme]string{
	ThemeDark:         "Dark",
	ThemeLight:        "Light",
	ThemeNord:         "Nord",
	ThemeHighContrast: "High Contrast",
}

// Palette is the set of colors the renderer draws with.
type Palette struct {
	Background color.NRGBA

	Ruler     color.NRGBA
	RulerTick color.NRGBA
	RulerText color.NRGBA

	Header         color.NRGBA
	HeaderSelected color.NRGBA
	HeaderText     color.NRGBA
	Separator      color.NRGBA

	Track    color.NRGBA
	TrackAlt color.NRGBA
	Lane     color.NRGBA
	Grid     color.NRGBA

	RegionEffects  color.NRGBA
	RegionVideo    color.NRGBA
	RegionSelected color.NRGBA
	RegionText     color.NRGBA

	Button     color.NRGBA
	ButtonText color.NRGBA
	SoloOn     color.NRGBA
	MuteOn     color.NRGBA

	BreakpointSelected color.NRGBA

	InOutShade  color.NRGBA
	InOutMarker color.NRGBA
	Marquee     color.NRGBA
	Playhead    color.NRGBA
}

var darkPalette = Palette{
	Background:         color.NRGBA{R: 24, G: 25, B: 28, A: 255},
	Ruler:              color.NRGBA{R: 36, G: 38, B: 43, A: 255},
	RulerTick:          color.NRGBA{R: 110, G: 114, B: 122, A: 255},
	RulerText:          color.NRGBA{R: 180, G: 184, B: 190, A: 255},
	Header:             color.NRGBA{R: 40, G: 42, B: 48, A: 255},
	HeaderSelected:     color.NRGBA{R: 55, G: 62, B: 80, A: 255},
	HeaderText:         color.NRGBA{R: 220, G: 222, B: 226, A: 255},
	Separator:          color.NRGBA{R: 16, G: 16, B: 18, A: 255},
	Track:              color.NRGBA{R: 30, G: 32, B: 36, A: 255},
	TrackAlt:           color.NRGBA{R: 33, G: 35, B: 40, A: 255},
	Lane:               color.NRGBA{R: 27, G: 28, B: 32, A: 255},
	Grid:               color.NRGBA{R: 48, G: 50, B: 56, A: 255},
	RegionEffects:      color.NRGBA{R: 96, G: 76, B: 170, A: 255},
	RegionVideo:        color.NRGBA{R: 46, G: 120, B: 150, A: 255},
	RegionSelected:     color.NRGBA{R: 255, G: 214, B: 90, A: 255},
	RegionText:         color.NRGBA{R: 245, G: 245, B: 250, A: 255},
	Button:             color.NRGBA{R: 58, G: 61, B: 68, A: 255},
	ButtonText:         color.NRGBA{R: 200, G: 200, B: 205, A: 255},
	SoloOn:             color.NRGBA{R: 230, G: 190, B: 40, A: 255},
	MuteOn:             color.NRGBA{R: 210, G: 70, B: 60, A: 255},
	BreakpointSelected: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	InOutShade:         color.NRGBA{R: 90, G: 160, B: 255, A: 36},
	InOutMarker:        color.NRGBA{R: 90, G: 160, B: 255, A: 255},
	Marquee:            color.NRGBA{R: 120, G: 180, B: 255, A: 60},
	Playhead:           color.NRGBA{R: 255, G: 80, B: 80, A: 255},
}

var lightPalette = Palette{
	Background:         color.NRGBA{R: 236, G: 237, B: 240, A: 255},
	Ruler:              color.NRGBA{R: 220, G: 222, B: 226, A: 255},
	RulerTick:          color.NRGBA{R: 120, G: 124, B: 130, A: 255},
	RulerText:          color.NRGBA{R: 60, G: 62, B: 68, A: 255},
	Header:             color.NRGBA{R: 226, G: 228, B: 232, A: 255},
	HeaderSelected:     color.NRGBA{R: 200, G: 212, B: 240, A: 255},
	HeaderText:         color.NRGBA{R: 30, G: 32, B: 36, A: 255},
	Separator:          color.NRGBA{R: 190, G: 192, B: 198, A: 255},
	Track:              color.NRGBA{R: 246, G: 247, B: 249, A: 255},
	TrackAlt:           color.NRGBA{R: 240, G: 241, B: 244, A: 255},
	Lane:               color.NRGBA{R: 250, G: 250, B: 252, A: 255},
	Grid:               color.NRGBA{R: 214, G: 216, B: 222, A: 255},
	RegionEffects:      color.NRGBA{R: 140, G: 120, B: 220, A: 255},
	RegionVideo:        color.NRGBA{R: 80, G: 160, B: 190, A: 255},
	RegionSelected:     color.NRGBA{R: 220, G: 140, B: 0, A: 255},
	RegionText:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Button:             color.NRGBA{R: 205, G: 208, B: 214, A: 255},
	ButtonText:         color.NRGBA{R: 40, G: 42, B: 48, A: 255},
	SoloOn:             color.NRGBA{R: 240, G: 190, B: 20, A: 255},
	MuteOn:             color.NRGBA{R: 220, G: 60, B: 50, A: 255},
	BreakpointSelected: color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	InOutShade:         color.NRGBA{R: 40, G: 110, B: 230, A: 30},
	InOutMarker:        color.NRGBA{R: 40, G: 110, B: 230, A: 255},
	Marquee:            color.NRGBA{R: 40, G: 110, B: 230, A: 50},
	Playhead:           color.NRGBA{R: 230, G: 40, B: 40, A: 255},
}

// Nord palette (nordtheme.com)
var nordPalette = Palette{
	Background:         color.NRGBA{R: 46, G: 52, B: 64, A: 255},
	Ruler:              color.NRGBA{R: 59, G: 66, B: 82, A: 255},
	RulerTick:          color.NRGBA{R: 129, G: 161, B: 193, A: 255},
	RulerText:          color.NRGBA{R: 216, G: 222, B: 233, A: 255},
	Header:             color.NRGBA{R: 59, G: 66, B: 82, A: 255},
	HeaderSelected:     color.NRGBA{R: 76, G: 86, B: 106, A: 255},
	HeaderText:         color.NRGBA{R: 236, G: 239, B: 244, A: 255},
	Separator:          color.NRGBA{R: 46, G: 52, B: 64, A: 255},
	Track:              color.NRGBA{R: 52, G: 58, B: 72, A: 255},
	TrackAlt:           color.NRGBA{R: 55, G: 62, B: 77, A: 255},
	Lane:               color.NRGBA{R: 49, G: 55, B: 68, A: 255},
	Grid:               color.NRGBA{R: 67, G: 76, B: 94, A: 255},
	RegionEffects:      color.NRGBA{R: 180, G: 142, B: 173, A: 255},
	RegionVideo:        color.NRGBA{R: 136, G: 192, B: 208, A: 255},
	RegionSelected:     color.NRGBA{R: 235, G: 203, B: 139, A: 255},
	RegionText:         color.NRGBA{R: 46, G: 52, B: 64, A: 255},
	Button:             color.NRGBA{R: 76, G: 86, B: 106, A: 255},
	ButtonText:         color.NRGBA{R: 229, G: 233, B: 240, A: 255},
	SoloOn:             color.NRGBA{R: 235, G: 203, B: 139, A: 255},
	MuteOn:             color.NRGBA{R: 191, G: 97, B: 106, A: 255},
	BreakpointSelected: color.NRGBA{R: 236, G: 239, B: 244, A: 255},
	InOutShade:         color.NRGBA{R: 136, G: 192, B: 208, A: 36},
	InOutMarker:        color.NRGBA{R: 136, G: 192, B: 208, A: 255},
	Marquee:            color.NRGBA{R: 129, G: 161, B: 193, A: 60},
	Playhead:           color.NRGBA{R: 191, G: 97, B: 106, A: 255},
}

var highContrastPalette = Palette{
	Background:         color.NRGBA{A: 255},
	Ruler:              color.NRGBA{R: 20, G: 20, B: 20, A: 255},
	RulerTick:          color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	RulerText:          color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Header:             color.NRGBA{R: 10, G: 10, B: 10, A: 255},
	HeaderSelected:     color.NRGBA{R: 0, G: 60, B: 140, A: 255},
	HeaderText:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Separator:          color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Track:              color.NRGBA{A: 255},
	TrackAlt:           color.NRGBA{R: 12, G: 12, B: 12, A: 255},
	Lane:               color.NRGBA{R: 6, G: 6, B: 6, A: 255},
	Grid:               color.NRGBA{R: 80, G: 80, B: 80, A: 255},
	RegionEffects:      color.NRGBA{R: 170, G: 0, B: 255, A: 255},
	RegionVideo:        color.NRGBA{R: 0, G: 200, B: 255, A: 255},
	RegionSelected:     color.NRGBA{R: 255, G: 255, B: 0, A: 255},
	RegionText:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	Button:             color.NRGBA{R: 60, G: 60, B: 60, A: 255},
	ButtonText:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	SoloOn:             color.NRGBA{R: 255, G: 255, B: 0, A: 255},
	MuteOn:             color.NRGBA{R: 255, G: 0, B: 0, A: 255},
	BreakpointSelected: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	InOutShade:         color.NRGBA{R: 0, G: 255, B: 0, A: 40},
	InOutMarker:        color.NRGBA{R: 0, G: 255, B: 0, A: 255},
	Marquee:            color.NRGBA{R: 255, G: 255, B: 255, A: 50},
	Playhead:           color.NRGBA{R: 255, G: 0, B: 0, A: 255},
}

// PaletteFor returns the palette of a theme; unknown themes get the dark one.
func PaletteFor(theme ColorTheme) Palette {
	switch theme {
	case ThemeLight:
		return lightPalette
	case ThemeNord:
		return nordPalette
	case ThemeHighContrast:
		return highContrastPalette
	default:
		return darkPalette
	}
}

// ParseHex converts a "#rrggbb" string, returning fallback when it does not
// parse.
func ParseHex(hex string, fallback color.NRGBA) color.NRGBA {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return toNRGBA(c, 255)
}

// Blend mixes a toward b by t in Lab space, keeping a's alpha.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := fromNRGBA(a)
	cb := fromNRGBA(b)
	return toNRGBA(ca.BlendLab(cb, t).Clamped(), a.A)
}

// WithAlpha returns c with a new alpha.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

func fromNRGBA(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toNRGBA(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
