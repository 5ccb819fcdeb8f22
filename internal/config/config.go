// Package config loads and saves the persistent OpenTraceFX settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AppConfig stores persistent application settings
type AppConfig struct {
	ColorTheme int `json:"color_theme"` // Store as int for JSON compatibility

	// Defaults for new projects
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"total_frames"`
	DefaultZoom float64 `json:"default_zoom"`

	LastProject string `json:"last_project,omitempty"`
	CatalogPath string `json:"catalog_path,omitempty"` // Extra effect catalog merged over the builtin one
	StorePath   string `json:"store_path,omitempty"`   // sqlite snapshot database
	OSCAddress  string `json:"osc_address,omitempty"`  // host:port for playhead/selection broadcast
	PreviewAddr string `json:"preview_addr,omitempty"` // listen address of the preview service
	LogLevel    string `json:"log_level,omitempty"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ColorTheme:  int(scene.ThemeDark),
		FPS:         timeline.DefaultFPS,
		TotalFrames: timeline.DefaultTotalFrames,
		DefaultZoom: timeline.DefaultZoom,
		PreviewAddr: ":8090",
		LogLevel:    "info",
	}
}

// Validate clamps out-of-range values back to defaults.
func (c *AppConfig) Validate() error {
	if _, ok := scene.ThemeNames[scene.ColorTheme(c.ColorTheme)]; !ok {
		c.ColorTheme = int(scene.ThemeDark)
	}
	if !timeline.ValidFPS(c.FPS) {
		c.FPS = timeline.DefaultFPS
	}
	if c.TotalFrames < 2 {
		c.TotalFrames = timeline.DefaultTotalFrames
	}
	if c.DefaultZoom < timeline.MinZoom || c.DefaultZoom > timeline.MaxZoom {
		c.DefaultZoom = timeline.DefaultZoom
	}
	if c.OSCAddress != "" {
		if _, _, err := SplitHostPort(c.OSCAddress); err != nil {
			return fmt.Errorf("osc_address: %w", err)
		}
	}
	return nil
}

// Theme returns the configured color theme.
func (c *AppConfig) Theme() scene.ColorTheme {
	return scene.ColorTheme(c.ColorTheme)
}

// Apply copies the project defaults onto a fresh editor.
func (c *AppConfig) Apply(ed *timeline.Editor) {
	ed.SetFPS(c.FPS)
	ed.SetTotalFrames(c.TotalFrames)
	ed.View.SetZoom(c.DefaultZoom)
}

// Dir returns the platform config directory.
func Dir() (string, error) {
	// Windows: use %APPDATA%\OpenTraceFX
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "OpenTraceFX"), nil
	}
	// Linux/macOS: use ~/.config/opentracefx
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "opentracefx"), nil
}

// Path returns the path to the config file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path.
func Load() (*AppConfig, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates a config file. A missing file yields the
// defaults without error.
func LoadFrom(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config, creating the directory if needed.
func SaveTo(cfg *AppConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
