package ui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"gioui.org/app"
	gfont "gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/gesture"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"

	"github.com/OpenTraceLab/OpenTraceFX/internal/config"
	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/internal/osclink"
	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/interact"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// Options configures the editor window.
type Options struct {
	Editor *timeline.Editor
	Config *config.AppConfig

	// ProjectPath is where Save writes; empty asks for a file.
	ProjectPath string

	// Link mirrors playhead and selection to a renderer when set.
	Link *osclink.Link

	// Store enables the snapshot button when set.
	Store *store.Store
}

// App is the timeline editor window.
type App struct {
	window   *app.Window
	ops      op.Ops
	explorer *explorer.Explorer

	gvTheme    *theme.Theme
	darkMode   bool
	shaper     *text.Shaper
	monoShaper *text.Shaper

	ed     *timeline.Editor
	ctl    *interact.Controller
	canvas *Canvas
	cfg    *config.AppConfig
	link   *osclink.Link
	store  *store.Store

	projectPath string
	dirty       bool
	frameDirty  bool

	toolbar toolbar

	logs          *logBuffer
	logText       string
	logSelectable widget.Selectable
	logList       widget.List
	logPaneHeight float32
	logSplitter   gesture.Drag
	logSplitDrag  bool
	logSplitLastY float32

	statusText string

	// pending holds work finished on other goroutines that must touch the
	// editor; it is drained at the start of every frame.
	pending chan func()
}

// New creates the editor window for opts.Editor.
func New(w *app.Window, opts Options) *App {
	if w == nil {
		w = new(app.Window)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ed := opts.Editor
	if ed == nil {
		ed = timeline.New(nil, nil)
		cfg.Apply(ed)
	}

	a := &App{
		window:      w,
		explorer:    explorer.NewExplorer(w),
		gvTheme:     theme.NewTheme("", nil, true),
		shaper:      text.NewShaper(text.WithCollection(gofont.Collection())),
		ed:          ed,
		ctl:         interact.New(ed),
		cfg:         cfg,
		link:        opts.Link,
		store:       opts.Store,
		projectPath: opts.ProjectPath,
		logs:        newLogBuffer(),
		pending:     make(chan func(), 16),
	}
	a.canvas = NewCanvas(a.ctl, a.shaper)
	a.canvas.Theme = cfg.Theme()
	a.canvas.Changed = a.markChanged
	a.darkMode = a.canvas.Theme != scene.ThemeLight

	if monoFaces := filterMonoFaces(); len(monoFaces) > 0 {
		a.monoShaper = text.NewShaper(text.WithCollection(monoFaces), text.NoSystemFonts())
	}

	var obs timeline.Observer = timeline.ObserverFuncs{
		OnPlayheadChanged: func(int) { a.frameDirty = true },
		OnNotice:          a.notice,
	}
	if a.link != nil {
		obs = timeline.MultiObserver{obs, a.link}
	}
	ed.SetObserver(obs)

	a.toolbar.init(a)
	a.logSelectable.WrapPolicy = text.WrapGraphemes
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true

	w.Option(app.Title(a.title()), app.Size(unit.Dp(1360), unit.Dp(860)))
	a.applyPalette()
	metrics.UpdateEditorGauges(ed)

	a.Logf("[BOOT] OpenTraceFX editor initialized")
	if a.link != nil {
		a.Logf("[OSC] Mirroring to %s", a.link.Addr())
	}
	a.Logf("[INFO] Space plays, D toggles draw mode, A toggles lanes")
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	logging.SetSink(func(level logging.LogLevel, msg string) {
		a.Logf("[%s] %s", level, msg)
	})
	defer logging.SetSink(nil)

	for {
		e := a.window.Event()
		a.explorer.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) title() string {
	name := "untitled"
	if a.projectPath != "" {
		name = filepath.Base(a.projectPath)
	}
	if a.dirty {
		name += " *"
	}
	return name + " - OpenTraceFX"
}

func (a *App) drainPending() {
	for {
		select {
		case fn := <-a.pending:
			fn()
		default:
			return
		}
	}
}

// post runs fn on the UI goroutine before the next frame.
func (a *App) post(fn func()) {
	a.pending <- fn
	a.invalidate()
}

func (a *App) markChanged() {
	if !a.dirty {
		a.dirty = true
		a.window.Option(app.Title(a.title()))
	}
}

func (a *App) notice(msg string) {
	a.statusText = msg
	a.Logf("[NOTICE] %s", msg)
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.drainPending()
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	dims := layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.toolbar.layout),
		layout.Flexed(1, a.canvas.Layout),
		layout.Rigid(a.layoutLogSplitter),
		layout.Rigid(a.layoutLogPane),
		layout.Rigid(a.layoutStatusBar),
	)

	if a.frameDirty {
		a.frameDirty = false
		a.sendFrame()
	}
	return dims
}

func (a *App) sendFrame() {
	if a.link == nil {
		return
	}
	if err := a.link.SendFrame(a.ed, a.ed.Playhead); err != nil {
		logging.Debug("frame %d not mirrored: %v", a.ed.Playhead, err)
	}
}

func (a *App) layoutLogSplitter(gtx layout.Context) layout.Dimensions {
	height := gtx.Dp(unit.Dp(8))
	if height < 4 {
		height = 4
	}
	size := image.Pt(gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: size}.Op())

	stack := clip.Rect{Max: size}.Push(gtx.Ops)
	a.logSplitter.Add(gtx.Ops)
	pointer.CursorRowResize.Add(gtx.Ops)
	stack.Pop()

	if ev, ok := a.logSplitter.Update(gtx.Metric, gtx.Source, gesture.Vertical); ok {
		switch ev.Kind {
		case pointer.Press:
			a.logSplitDrag = true
			a.logSplitLastY = ev.Position.Y
		case pointer.Drag:
			if a.logSplitDrag {
				dy := ev.Position.Y - a.logSplitLastY
				a.logSplitLastY = ev.Position.Y
				a.logPaneHeight -= dy
				a.clampLogPaneHeight(gtx)
				a.invalidate()
			}
		case pointer.Release, pointer.Cancel:
			a.logSplitDrag = false
		}
	}
	return layout.Dimensions{Size: size}
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	a.ensureLogPaneHeight(gtx)
	h := int(a.logPaneHeight)
	gtx.Constraints.Min.Y = h
	gtx.Constraints.Max.Y = h

	if txt := a.logs.Text(); txt != a.logText {
		a.logText = txt
		a.logSelectable.SetText(txt)
	}

	size := image.Pt(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: size}.Op())

	return layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = gtx.Constraints.Max
		return a.logList.Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
			label := material.Body2(a.gvTheme.Theme, a.logText)
			label.State = &a.logSelectable
			label.WrapPolicy = text.WrapGraphemes
			label.Alignment = text.Start
			label.Font.Typeface = gfont.Typeface("Go Mono")
			if a.monoShaper != nil {
				label.Shaper = a.monoShaper
			}
			label.Color = a.opaqueFg()
			label.SelectionColor = a.selectionColor()
			return label.Layout(gtx)
		})
	})
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				msg := a.statusText
				if msg == "" {
					msg = "Ready"
				}
				return material.Body2(a.gvTheme.Theme, msg).Layout(gtx)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(360))
				lbl := material.Body2(a.gvTheme.Theme, a.statusSummary())
				lbl.Alignment = text.End
				return lbl.Layout(gtx)
			}),
		)
	})
}

// statusSummary is the right-hand status text.
func (a *App) statusSummary() string {
	ed := a.ed
	parts := []string{
		scene.Timecode(ed.Playhead, ed.FPS),
		fmt.Sprintf("frame %d/%d", ed.Playhead, ed.LastFrame()),
		fmt.Sprintf("zoom %.2f px/f", ed.View.Zoom),
	}
	if ed.HasInOut() {
		parts = append(parts, fmt.Sprintf("in %d out %d", ed.InPoint, ed.OutPoint))
	}
	if a.ctl.DrawMode {
		parts = append(parts, "DRAW")
	}
	return strings.Join(parts, "  |  ")
}

func (a *App) applyPalette() {
	if a.darkMode {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 34, G: 40, B: 50, A: 255},
		})
	} else {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 225, G: 230, B: 244, A: 255},
		})
	}
}

func (a *App) ensureLogPaneHeight(gtx layout.Context) {
	if a.logPaneHeight > 0 {
		return
	}
	a.logPaneHeight = float32(gtx.Dp(unit.Dp(120)))
	a.clampLogPaneHeight(gtx)
}

func (a *App) clampLogPaneHeight(gtx layout.Context) {
	min := float32(gtx.Dp(unit.Dp(48)))
	max := float32(gtx.Dp(unit.Dp(360)))
	if a.logPaneHeight < min {
		a.logPaneHeight = min
	}
	if a.logPaneHeight > max {
		a.logPaneHeight = max
	}
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}

// Logf appends a line to the log pane.
func (a *App) Logf(format string, args ...any) {
	a.logs.Add(format, args...)
	a.invalidate()
}

func (a *App) opaqueFg() color.NRGBA {
	fg := a.gvTheme.Palette.Fg
	fg.A = 0xFF
	return fg
}

func (a *App) selectionColor() color.NRGBA {
	bg := a.gvTheme.Palette.ContrastBg
	return color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0x88}
}

func filterMonoFaces() []gfont.FontFace {
	var mono []gfont.FontFace
	for _, face := range gofont.Collection() {
		if face.Font.Typeface == gfont.Typeface("Go Mono") {
			mono = append(mono, face)
		}
	}
	return mono
}

// menuOption builds a dropdown entry that highlights when selected.
func menuOption(label string, selected func() bool, onClick func()) menu.MenuOption {
	return menu.MenuOption{
		OnClicked: func() error {
			onClick()
			return nil
		},
		Layout: func(gtx menu.C, th *theme.Theme) menu.D {
			lbl := material.Body1(th.Theme, label)
			if selected != nil && selected() {
				lbl.Color = th.Palette.ContrastBg
			}
			return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
		},
	}
}
