package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/osclink"
	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	appui "github.com/OpenTraceLab/OpenTraceFX/internal/ui"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

var (
	uiOSC   string
	uiStore string
)

var uiCmd = &cobra.Command{
	Use:   "ui [project.json]",
	Short: "Launch the timeline editor",
	Long: `Launch the Gio timeline editor. Without a project argument the last
opened project is reopened, or an empty timeline is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		path := cfg.LastProject
		if len(args) == 1 {
			path = args[0]
		}

		var (
			ed  *timeline.Editor
			err error
		)
		if path != "" {
			ed, err = loadProject(cfg, path)
			if errors.Is(err, os.ErrNotExist) && len(args) == 1 {
				logging.Info("%s does not exist yet, starting empty", path)
				ed, err = newEditor(cfg)
			}
		} else {
			ed, err = newEditor(cfg)
		}
		if err != nil {
			return err
		}
		if path != "" && path != cfg.LastProject {
			cfg.LastProject = path
			if err := saveConfig(cfg); err != nil {
				logging.Warn("config: %v", err)
			}
		}

		opts := appui.Options{Editor: ed, Config: cfg, ProjectPath: path}

		oscAddr := firstNonEmpty(uiOSC, cfg.OSCAddress)
		if oscAddr != "" {
			link, err := osclink.Dial(oscAddr)
			if err != nil {
				return err
			}
			opts.Link = link
		}

		dbPath := firstNonEmpty(uiStore, cfg.StorePath)
		if dbPath != "" {
			st, err := store.Open(context.Background(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			opts.Store = st
		}

		return appui.Run(opts)
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	uiCmd.Flags().StringVar(&uiOSC, "osc", "", "mirror playhead and frames to host:port")
	uiCmd.Flags().StringVar(&uiStore, "db", "", "snapshot database")
	rootCmd.AddCommand(uiCmd)
}
