package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gioui.org/app"
	"gioui.org/x/explorer"

	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/raster"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

// Size of PNG exports.
const (
	exportWidth  = 1920
	exportHeight = 540
)

// projectName is the key snapshots are stored under.
func projectName(path string) string {
	if path == "" {
		return "untitled"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openProject asks for a project file and loads it on the UI goroutine.
func (a *App) openProject() {
	go func() {
		rc, err := a.explorer.ChooseFile("json")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.Logf("[ERROR] Open failed: %v", err)
			}
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			a.Logf("[ERROR] Read failed: %v", err)
			return
		}
		name := ""
		if f, ok := rc.(*os.File); ok {
			name = f.Name()
		}
		a.post(func() { a.loadDocument(data, name) })
	}()
}

func (a *App) loadDocument(data []byte, path string) {
	if err := a.ed.Deserialize(data); err != nil {
		a.notice(fmt.Sprintf("Not a project file: %v", err))
		return
	}
	a.projectPath = path
	a.dirty = false
	a.frameDirty = true
	a.window.Option(app.Title(a.title()))
	metrics.UpdateEditorGauges(a.ed)
	a.notice(fmt.Sprintf("Loaded %d tracks, %d regions", len(a.ed.Tracks), countRegions(a)))
}

func countRegions(a *App) int {
	n := 0
	for _, t := range a.ed.Tracks {
		n += len(t.Regions)
	}
	return n
}

// saveProject writes the project to its path, or asks for one.
func (a *App) saveProject() {
	data, err := a.ed.Serialize()
	if err != nil {
		a.notice(fmt.Sprintf("Serialize failed: %v", err))
		return
	}
	if a.projectPath != "" {
		path := a.projectPath
		go func() {
			if err := os.WriteFile(path, data, 0o644); err != nil {
				a.Logf("[ERROR] Save failed: %v", err)
				return
			}
			a.post(func() { a.saved(path) })
		}()
		return
	}
	go func() {
		wc, err := a.explorer.CreateFile("project.json")
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.Logf("[ERROR] Save failed: %v", err)
			}
			return
		}
		_, werr := wc.Write(data)
		cerr := wc.Close()
		if err := errors.Join(werr, cerr); err != nil {
			a.Logf("[ERROR] Save failed: %v", err)
			return
		}
		name := ""
		if f, ok := wc.(*os.File); ok {
			name = f.Name()
		}
		a.post(func() { a.saved(name) })
	}()
}

func (a *App) saved(path string) {
	a.projectPath = path
	a.dirty = false
	a.window.Option(app.Title(a.title()))
	a.notice("Saved " + projectName(path))
}

// exportPNG rasterizes the timeline at the current zoom and asks where to
// write it.
func (a *App) exportPNG() {
	ed := a.ed
	view := ed.View
	ed.View.SetVisibleWidth(exportWidth - ed.View.HeaderWidth)
	s := scene.Render(ed, scene.Options{Width: exportWidth, Height: exportHeight, Theme: a.canvas.Theme})
	ed.View = view
	name := projectName(a.projectPath) + ".png"

	go func() {
		img := raster.Rasterize(s)
		wc, err := a.explorer.CreateFile(name)
		if err != nil {
			if !errors.Is(err, explorer.ErrUserDecline) {
				a.Logf("[ERROR] Export failed: %v", err)
			}
			return
		}
		err = raster.EncodePNG(wc, img)
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			a.Logf("[ERROR] Export failed: %v", err)
			return
		}
		a.Logf("[INFO] Exported %dx%d PNG", exportWidth, exportHeight)
	}()
}

// saveSnapshot stores the current document in the snapshot database.
func (a *App) saveSnapshot() {
	if a.store == nil {
		return
	}
	data, err := a.ed.Serialize()
	if err != nil {
		a.notice(fmt.Sprintf("Serialize failed: %v", err))
		return
	}
	project := projectName(a.projectPath)
	label := scene.Timecode(a.ed.Playhead, a.ed.FPS)
	st := a.store
	go func() {
		id, err := st.SaveDocument(context.Background(), project, label, data)
		if err != nil {
			a.Logf("[ERROR] Snapshot failed: %v", err)
			return
		}
		a.post(func() { a.notice(fmt.Sprintf("Snapshot %d of %s stored", id, project)) })
	}()
}
