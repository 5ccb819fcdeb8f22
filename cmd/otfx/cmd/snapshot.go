package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/raster"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

var (
	snapWidth  int
	snapHeight int
	snapThumb  int
	snapTheme  string
	snapOut    string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <project.json>",
	Short: "Render the timeline to an image",
	Long: `Render the timeline as it would appear in the editor and write it as
PNG (or JPEG, by extension). The whole timeline is fitted to --width.

Examples:
  otfx snapshot show.json -o show.png
  otfx snapshot show.json -o thumb.png --thumb 320 --theme nord`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ed, err := loadProject(cfg, args[0])
		if err != nil {
			return err
		}
		if snapOut == "" {
			return fmt.Errorf("--output is required")
		}
		if snapWidth < 200 || snapHeight < 64 {
			return fmt.Errorf("size %dx%d too small", snapWidth, snapHeight)
		}
		theme := cfg.Theme()
		if snapTheme != "" {
			t, ok := themeByName(snapTheme)
			if !ok {
				return fmt.Errorf("unknown theme %q", snapTheme)
			}
			theme = t
		}

		ed.View.SetVisibleWidth(float64(snapWidth) - ed.View.HeaderWidth)
		ed.View.SetZoom(ed.View.VisibleWidth / float64(ed.TotalFrames()))
		ed.View.SetScroll(0)
		s := scene.Render(ed, scene.Options{Width: float64(snapWidth), Height: float64(snapHeight), Theme: theme})
		img := raster.Rasterize(s)

		if snapThumb > 0 {
			err = raster.Save(raster.Thumbnail(img, snapThumb), snapOut)
		} else {
			err = raster.Save(img, snapOut)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", snapOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", snapOut)
		return nil
	},
}

func themeByName(name string) (scene.ColorTheme, bool) {
	for t, n := range scene.ThemeNames {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return 0, false
}

func init() {
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 1600, "image width")
	snapshotCmd.Flags().IntVar(&snapHeight, "height", 480, "image height")
	snapshotCmd.Flags().IntVar(&snapThumb, "thumb", 0, "scale the result to this width")
	snapshotCmd.Flags().StringVar(&snapTheme, "theme", "", "color theme (dark, light, nord, high contrast)")
	snapshotCmd.Flags().StringVarP(&snapOut, "output", "o", "", "output image")
	rootCmd.AddCommand(snapshotCmd)
}
