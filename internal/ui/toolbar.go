package ui

import (
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/menu"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceFX/internal/config"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/interact"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

type toolbar struct {
	a *App

	playIcon, pauseIcon     *widget.Icon
	drawIcon                *widget.Icon
	lanesIcon, lanesOffIcon *widget.Icon
	openIcon, saveIcon      *widget.Icon
	snapIcon, historyIcon   *widget.Icon
	addIcon, tuneIcon       *widget.Icon
	homeIcon, endIcon       *widget.Icon

	playBtn, drawBtn, lanesBtn      widget.Clickable
	openBtn, saveBtn                widget.Clickable
	pngBtn, storeBtn                widget.Clickable
	addTrackBtn, simplifyBtn        widget.Clickable
	homeBtn, endBtn                 widget.Clickable
	shapeBtn, curveBtn, effectBtn   widget.Clickable
	themeBtn                        widget.Clickable
	shapeMenu, curveMenu, themeMenu *menu.DropdownMenu
	effectMenu                      *menu.DropdownMenu
}

func mustIcon(data []byte) *widget.Icon {
	if icon, err := widget.NewIcon(data); err == nil {
		return icon
	}
	return nil
}

func (t *toolbar) init(a *App) {
	t.a = a
	t.playIcon = mustIcon(icons.AVPlayArrow)
	t.pauseIcon = mustIcon(icons.AVPause)
	t.drawIcon = mustIcon(icons.ContentCreate)
	t.lanesIcon = mustIcon(icons.ActionVisibility)
	t.lanesOffIcon = mustIcon(icons.ActionVisibilityOff)
	t.openIcon = mustIcon(icons.FileFolderOpen)
	t.saveIcon = mustIcon(icons.ContentSave)
	t.snapIcon = mustIcon(icons.ImagePhotoCamera)
	t.historyIcon = mustIcon(icons.ActionHistory)
	t.addIcon = mustIcon(icons.ContentAdd)
	t.tuneIcon = mustIcon(icons.ImageTune)
	t.homeIcon = mustIcon(icons.AVSkipPrevious)
	t.endIcon = mustIcon(icons.AVSkipNext)

	t.shapeMenu = t.buildShapeMenu()
	t.curveMenu = t.buildCurveMenu()
	t.themeMenu = t.buildThemeMenu()
	t.effectMenu = t.buildEffectMenu()
}

func (t *toolbar) buildShapeMenu() *menu.DropdownMenu {
	opts := make([]menu.MenuOption, 0, len(automation.Shapes))
	for _, s := range automation.Shapes {
		shape := s
		opts = append(opts, menuOption(string(shape), nil, func() {
			t.a.notice(insertShape(t.a.ed, shape))
			t.a.markChanged()
		}))
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(200)
	return drop
}

func (t *toolbar) buildCurveMenu() *menu.DropdownMenu {
	opts := make([]menu.MenuOption, 0, len(automation.Curves))
	for _, c := range automation.Curves {
		curve := c
		opts = append(opts, menuOption(string(curve), nil, func() {
			if n := applyCurve(t.a.ed, curve); n > 0 {
				t.a.Logf("[EDIT] Curve %s on %d breakpoints", curve, n)
				t.a.markChanged()
			} else {
				t.a.notice("Select breakpoints first")
			}
		}))
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(200)
	return drop
}

func (t *toolbar) buildThemeMenu() *menu.DropdownMenu {
	themes := []scene.ColorTheme{scene.ThemeDark, scene.ThemeLight, scene.ThemeNord, scene.ThemeHighContrast}
	opts := make([]menu.MenuOption, 0, len(themes))
	for _, th := range themes {
		ct := th
		opts = append(opts, menuOption(scene.ThemeNames[ct], func() bool {
			return t.a.canvas.Theme == ct
		}, func() {
			t.a.setTheme(ct)
		}))
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(200)
	return drop
}

func (t *toolbar) buildEffectMenu() *menu.DropdownMenu {
	reg := t.a.ed.Registry()
	if reg == nil {
		return nil
	}
	names := reg.Names()
	if len(names) == 0 {
		return nil
	}
	opts := make([]menu.MenuOption, 0, len(names))
	for _, n := range names {
		name := n
		label := name
		if spec, ok := reg.Lookup(name); ok && spec.Label != "" {
			label = spec.Label
		}
		opts = append(opts, menuOption(label, nil, func() {
			t.a.notice(addEffect(t.a.ed, name))
			t.a.markChanged()
		}))
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(240)
	return drop
}

func (a *App) setTheme(ct scene.ColorTheme) {
	if a.canvas.Theme == ct {
		return
	}
	a.canvas.Theme = ct
	a.darkMode = ct != scene.ThemeLight
	a.applyPalette()
	a.cfg.ColorTheme = int(ct)
	if err := config.Save(a.cfg); err != nil {
		a.Logf("[ERROR] Failed to save config: %v", err)
	}
	a.Logf("[INFO] Theme switched to %s", scene.ThemeNames[ct])
	a.invalidate()
}

func (t *toolbar) handleClicks(gtx layout.Context) {
	a := t.a
	ctl := a.ctl
	if t.playBtn.Clicked(gtx) {
		ctl.TogglePlayback()
	}
	if t.drawBtn.Clicked(gtx) {
		ctl.Key(interact.KeyD, 0)
	}
	if t.lanesBtn.Clicked(gtx) {
		ctl.Key(interact.KeyA, 0)
	}
	if t.homeBtn.Clicked(gtx) {
		ctl.Key(interact.KeyHome, 0)
	}
	if t.endBtn.Clicked(gtx) {
		ctl.Key(interact.KeyEnd, 0)
	}
	if t.addTrackBtn.Clicked(gtx) {
		tr := addTrack(a.ed)
		a.Logf("[EDIT] Added %s", tr.Name)
		a.markChanged()
	}
	if t.simplifyBtn.Clicked(gtx) {
		a.notice(simplifyTarget(a.ed))
		a.markChanged()
	}
	if t.openBtn.Clicked(gtx) {
		a.openProject()
	}
	if t.saveBtn.Clicked(gtx) {
		a.saveProject()
	}
	if t.pngBtn.Clicked(gtx) {
		a.exportPNG()
	}
	if t.storeBtn.Clicked(gtx) {
		a.saveSnapshot()
	}
}

func (t *toolbar) iconButton(gtx layout.Context, btn *widget.Clickable, icon *widget.Icon, label string) layout.Dimensions {
	th := t.a.gvTheme.Theme
	if icon == nil {
		return material.Button(th, btn, label).Layout(gtx)
	}
	b := material.IconButton(th, btn, icon, label)
	b.Size = unit.Dp(20)
	b.Inset = layout.UniformInset(unit.Dp(6))
	return b.Layout(gtx)
}

func (t *toolbar) dropdown(gtx layout.Context, btn *widget.Clickable, m *menu.DropdownMenu, label string) layout.Dimensions {
	if m == nil {
		return layout.Dimensions{}
	}
	if btn.Clicked(gtx) {
		m.ToggleVisibility(gtx)
	}
	dims := material.Button(t.a.gvTheme.Theme, btn, label).Layout(gtx)
	m.Layout(gtx, t.a.gvTheme)
	return dims
}

func (t *toolbar) layout(gtx layout.Context) layout.Dimensions {
	t.handleClicks(gtx)
	a := t.a

	play := t.playIcon
	if a.ctl.Transport.Playing() {
		play = t.pauseIcon
	}
	lanes := t.lanesIcon
	if !a.ed.LanesVisible {
		lanes = t.lanesOffIcon
	}

	spacer := layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout)
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.openBtn, t.openIcon, "Open")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.saveBtn, t.saveIcon, "Save")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.pngBtn, t.snapIcon, "Export PNG")
		}),
	}
	if a.store != nil {
		children = append(children, spacer, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.storeBtn, t.historyIcon, "Snapshot")
		}))
	}
	children = append(children,
		layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.homeBtn, t.homeIcon, "Start")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.playBtn, play, "Play")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.endBtn, t.endIcon, "End")
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.drawBtn, t.drawIcon, "Draw")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.lanesBtn, lanes, "Lanes")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.addTrackBtn, t.addIcon, "Add track")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.iconButton(gtx, &t.simplifyBtn, t.tuneIcon, "Simplify")
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(18)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.dropdown(gtx, &t.effectBtn, t.effectMenu, "Effect")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.dropdown(gtx, &t.shapeBtn, t.shapeMenu, "Shape")
		}),
		spacer,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.dropdown(gtx, &t.curveBtn, t.curveMenu, "Curve")
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions { return layout.Dimensions{} }),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return t.dropdown(gtx, &t.themeBtn, t.themeMenu, "Theme")
		}),
	)

	inset := layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Top: unit.Dp(6), Bottom: unit.Dp(6)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
	})
}
