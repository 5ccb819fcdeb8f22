package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/automation"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline/scene"
)

var (
	laneID     int
	sampleFrom int
	sampleTo   int
	sampleRaw  bool

	tolerance float64
	outPath   string

	shapeKind       string
	shapeStart      int
	shapeEnd        int
	shapeResolution int
)

var sampleCmd = &cobra.Command{
	Use:   "sample <project.json>",
	Short: "Print automation values of a lane",
	Long: `Sample a lane at one frame or every frame of a range. Values are
printed in the parameter's own units unless --raw asks for the normalized
0..1 lane value.

Examples:
  otfx sample show.json --lane 0 --frame 10
  otfx sample show.json --lane 0 --frame 10 --to 40 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := loadProject(loadConfig(), args[0])
		if err != nil {
			return err
		}
		l, err := requireLane(ed, laneID)
		if err != nil {
			return err
		}
		to := sampleFrom
		if cmd.Flags().Changed("to") {
			to = sampleTo
		}
		if to < sampleFrom {
			return fmt.Errorf("--to %d is before --frame %d", to, sampleFrom)
		}
		spec, hasSpec := ed.LaneParamSpec(l)

		w := cmd.OutOrStdout()
		for i, v := range automation.SampleRange(l.Keyframes, sampleFrom, to) {
			var out any = v
			if hasSpec && !sampleRaw {
				out = spec.Denormalize(v)
			}
			fmt.Fprintf(w, "%d\t%s\n", sampleFrom+i, formatValue(out))
		}
		return nil
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify <project.json>",
	Short: "Remove redundant keyframes from a lane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := loadProject(loadConfig(), args[0])
		if err != nil {
			return err
		}
		l, err := requireLane(ed, laneID)
		if err != nil {
			return err
		}
		if tolerance <= 0 {
			return fmt.Errorf("--tolerance must be positive")
		}
		before := len(l.Keyframes)
		removed := ed.SimplifyLane(l.ID, tolerance)
		if err := writeProject(ed, output(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lane %d: %d -> %d keyframes (%d removed)\n",
			l.ID, before, before-removed, removed)
		return nil
	},
}

var shapeCmd = &cobra.Command{
	Use:   "shape <project.json>",
	Short: "Fill a lane range with a waveform",
	Long: `Replace the keyframes of a lane between --start and --end with a
generated waveform. Without a range the lane's region span is used.

Kinds: ramp_up, ramp_down, sine, triangle, saw, square, s_curve`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := loadProject(loadConfig(), args[0])
		if err != nil {
			return err
		}
		l, err := requireLane(ed, laneID)
		if err != nil {
			return err
		}
		shape := automation.Shape(shapeKind)
		if !shape.Valid() {
			return fmt.Errorf("unknown shape %q", shapeKind)
		}
		start, end, ok := scene.LaneFrameSpan(ed, l)
		if cmd.Flags().Changed("start") {
			start, ok = shapeStart, true
		}
		if cmd.Flags().Changed("end") {
			end = shapeEnd
		}
		if !ok {
			return fmt.Errorf("lane %d has no region; pass --start and --end", l.ID)
		}
		if shapeResolution < 1 {
			return fmt.Errorf("--resolution must be at least 1")
		}
		ed.InsertShape(l.ID, shape, start, end, shapeResolution)
		if err := writeProject(ed, output(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lane %d: %s over %d-%d, %d keyframes\n",
			l.ID, shape, start, end, len(l.Keyframes))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{sampleCmd, simplifyCmd, shapeCmd} {
		c.Flags().IntVar(&laneID, "lane", -1, "lane ID")
		_ = c.MarkFlagRequired("lane")
		rootCmd.AddCommand(c)
	}
	sampleCmd.Flags().IntVar(&sampleFrom, "frame", 0, "first frame")
	sampleCmd.Flags().IntVar(&sampleTo, "to", 0, "last frame (default: --frame)")
	sampleCmd.Flags().BoolVar(&sampleRaw, "raw", false, "print normalized lane values")

	simplifyCmd.Flags().Float64Var(&tolerance, "tolerance", 0.01, "allowed value deviation (0..1)")
	simplifyCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: overwrite input)")

	shapeCmd.Flags().StringVar(&shapeKind, "kind", string(automation.ShapeSine), "waveform")
	shapeCmd.Flags().IntVar(&shapeStart, "start", 0, "first frame")
	shapeCmd.Flags().IntVar(&shapeEnd, "end", 0, "last frame")
	shapeCmd.Flags().IntVar(&shapeResolution, "resolution", 16, "segments")
	shapeCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: overwrite input)")
}

func requireLane(ed *timeline.Editor, id int) (*timeline.Lane, error) {
	l := ed.Lane(id)
	if l == nil {
		return nil, fmt.Errorf("no lane %d", id)
	}
	return l, nil
}

func output(input string) string {
	if outPath != "" {
		return outPath
	}
	return input
}

func formatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("%.4f", n)
	case []float64:
		if len(n) == 2 {
			return fmt.Sprintf("%.4f,%.4f", n[0], n[1])
		}
	}
	return fmt.Sprint(v)
}
