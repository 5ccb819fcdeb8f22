package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.ColorTheme = int(scene.ThemeNord)
	cfg.FPS = 24
	cfg.OSCAddress = "localhost:9000"
	require.NoError(t, SaveTo(cfg, path))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, scene.ThemeNord, got.Theme())
}

func TestValidateClamps(t *testing.T) {
	cfg := &AppConfig{ColorTheme: 42, FPS: -1, TotalFrames: 0, DefaultZoom: 500}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int(scene.ThemeDark), cfg.ColorTheme)
	assert.Equal(t, timeline.DefaultFPS, cfg.FPS)
	assert.Equal(t, timeline.DefaultTotalFrames, cfg.TotalFrames)
	assert.Equal(t, timeline.DefaultZoom, cfg.DefaultZoom)

	cfg.OSCAddress = "no-port"
	assert.Error(t, cfg.Validate())
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPS = 25
	cfg.TotalFrames = 250
	cfg.DefaultZoom = 4
	ed := timeline.New(nil, nil)
	cfg.Apply(ed)
	assert.Equal(t, 25.0, ed.FPS)
	assert.Equal(t, 250, ed.TotalFrames())
	assert.Equal(t, 4.0, ed.View.Zoom)
}

func TestPathUsesAppData(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APPDATA", dir)
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "OpenTraceFX", "config.json"), p)
}

func TestSplitHostPort(t *testing.T) {
	host, port, err := SplitHostPort(":57120")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, 57120, port)

	_, _, err = SplitHostPort("host:0")
	assert.Error(t, err)
}
