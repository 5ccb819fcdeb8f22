package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/internal/config"
	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

var (
	// Global flags
	verbose     bool
	logLevel    string
	catalogPath string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "otfx",
	Short: "OpenTraceFX - timeline editor for video effect automation",
	Long: `OpenTraceFX (otfx) edits effect timelines: tracks of regions, each
carrying an effect chain whose parameters are driven by keyframe lanes.

Examples:
  otfx ui show.json                               # Launch the editor
  otfx info show.json                             # Summarize a project
  otfx sample show.json --lane 0 --frame 10 --to 20
  otfx serve show.json --addr :8090 --osc 127.0.0.1:9000
  otfx store history show --db snapshots.db`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			logging.SetLevel(logging.LevelDebug)
		case logLevel != "":
			lvl, ok := logging.ParseLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}
			logging.SetLevel(lvl)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "extra effect catalog (.fxcat or .sexp)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: platform config dir)")
}

// loadConfig reads --config or the default config file. A broken config
// file is reported and replaced by the defaults.
func loadConfig() *config.AppConfig {
	var (
		cfg *config.AppConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil || cfg == nil {
		if err != nil {
			logging.Warn("config: %v", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

// loadRegistry merges --catalog, else the configured catalog, over the
// builtin effects.
func loadRegistry(cfg *config.AppConfig) (*registry.Catalog, error) {
	path := catalogPath
	if path == "" {
		path = cfg.CatalogPath
	}
	reg, err := registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return reg, nil
}

// newEditor builds an empty editor with the configured defaults.
func newEditor(cfg *config.AppConfig) (*timeline.Editor, error) {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	ed := timeline.New(reg, nil)
	cfg.Apply(ed)
	return ed, nil
}

// loadProject reads a project document into a new editor.
func loadProject(cfg *config.AppConfig, path string) (*timeline.Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	ed, err := newEditor(cfg)
	if err != nil {
		return nil, err
	}
	if err := ed.Deserialize(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug("loaded %s: %d tracks, %d lanes", path, len(ed.Tracks), len(ed.Lanes))
	return ed, nil
}

// writeProject serializes ed to path.
func writeProject(ed *timeline.Editor, path string) error {
	data, err := ed.Serialize()
	if err != nil {
		return fmt.Errorf("serialize project: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// saveConfig writes cfg back to where loadConfig read it.
func saveConfig(cfg *config.AppConfig) error {
	if configPath != "" {
		return config.SaveTo(cfg, configPath)
	}
	return config.Save(cfg)
}
