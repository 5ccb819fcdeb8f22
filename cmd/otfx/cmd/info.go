package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

var infoFrame int

var infoCmd = &cobra.Command{
	Use:   "info <project.json>",
	Short: "Summarize a project",
	Long: `Print the tracks, regions, effect chains and automation lanes of a
project. With --frame the lanes show their value at that frame instead of
the playhead.

Examples:
  otfx info show.json
  otfx info show.json --frame 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := loadProject(loadConfig(), args[0])
		if err != nil {
			return err
		}
		frame := ed.Playhead
		if cmd.Flags().Changed("frame") {
			frame = ed.ClampFrame(infoFrame)
		}
		printInfo(cmd.OutOrStdout(), ed, frame)
		return nil
	},
}

func init() {
	infoCmd.Flags().IntVar(&infoFrame, "frame", 0, "frame to sample lanes at")
	rootCmd.AddCommand(infoCmd)
}

func printInfo(w io.Writer, ed *timeline.Editor, frame int) {
	regions := 0
	for _, t := range ed.Tracks {
		regions += len(t.Regions)
	}

	fmt.Fprintln(w, titleStyle.Render("Project"))
	fmt.Fprintf(w, "  %s %d frames @ %g fps (%s)\n", labelStyle.Render("Length:"),
		ed.TotalFrames(), ed.FPS, scene.Timecode(ed.LastFrame(), ed.FPS))
	fmt.Fprintf(w, "  %s %d tracks, %d regions, %d lanes\n", labelStyle.Render("Contents:"),
		len(ed.Tracks), regions, len(ed.Lanes))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("Playhead:"), ed.Playhead)
	if ed.HasInOut() {
		fmt.Fprintf(w, "  %s %d-%d\n", labelStyle.Render("In/Out:"), ed.InPoint, ed.OutPoint)
	}

	for _, t := range ed.Tracks {
		fmt.Fprintln(w)
		name := headerStyle.Render(fmt.Sprintf("Track %d: %s", t.ID, t.Name))
		var flags []string
		if t.Muted {
			flags = append(flags, mutedStyle.Render("muted"))
		}
		if t.Soloed {
			flags = append(flags, "solo")
		}
		if len(flags) > 0 {
			name += " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintln(w, name)
		for _, r := range t.Regions {
			fmt.Fprintln(w, blockStyle.Render(regionInfo(ed, r, frame)))
		}
	}
}

func regionInfo(ed *timeline.Editor, r *timeline.Region, frame int) string {
	var b strings.Builder
	label := r.Label
	if label == "" {
		label = fmt.Sprintf("Region %d", r.ID)
	}
	fmt.Fprintf(&b, "%s %s %d-%d (%d frames)", label, labelStyle.Render("frames"), r.StartFrame, r.EndFrame, r.Duration())
	for i, eff := range r.Effects {
		status := ""
		if eff.Bypassed {
			status = " " + mutedStyle.Render("bypassed")
		}
		fmt.Fprintf(&b, "\n  [%d] %s%s", i, eff.Name, status)
		for _, l := range ed.LanesForRegion(r.ID) {
			if l.EffectIndex != i {
				continue
			}
			value := "-"
			if v, ok := l.Sample(frame); ok {
				value = fmt.Sprintf("%.3f", v)
			}
			fmt.Fprintf(&b, "\n      %s lane %d %s: %d keyframes, %s@%d",
				laneStyle.Render("~"), l.ID, l.ParamName, len(l.Keyframes), value, frame)
		}
	}
	return b.String()
}
