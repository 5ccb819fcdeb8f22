package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/internal/osclink"
	"github.com/OpenTraceLab/OpenTraceFX/internal/preview"
	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

var (
	serveAddr      string
	serveOSC       string
	serveOSCListen string
	serveDB        string
	serveProject   string
)

var serveCmd = &cobra.Command{
	Use:   "serve <project.json>",
	Short: "Serve a project over HTTP and OSC",
	Long: `Run the preview service for a project: frame descriptions, lane
samples and PNG snapshots over HTTP, plus Prometheus metrics on /metrics.

With --osc every playhead change is mirrored to a renderer as OSC frame and
parameter messages. With --osc-listen the playhead can be driven by
/otfx/playhead/set messages.

Examples:
  otfx serve show.json --addr :8090
  otfx serve show.json --osc 127.0.0.1:9000 --osc-listen :9001 --db snapshots.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ed, err := loadProject(cfg, args[0])
		if err != nil {
			return err
		}
		metrics.UpdateEditorGauges(ed)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := preview.Options{Theme: cfg.Theme(), Project: serveProject}
		if opts.Project == "" {
			opts.Project = projectKey(args[0])
		}

		if dbPath := firstNonEmpty(serveDB, cfg.StorePath); dbPath != "" {
			st, err := store.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			opts.Store = st
		}

		var link *osclink.Link
		if addr := firstNonEmpty(serveOSC, cfg.OSCAddress); addr != "" {
			link, err = osclink.Dial(addr)
			if err != nil {
				return err
			}
			ed.SetObserver(link)
		}
		opts.OnChange = func(ed *timeline.Editor) {
			metrics.UpdateEditorGauges(ed)
			mirrorFrame(link, ed)
		}

		srv := preview.New(ed, opts)
		addr := firstNonEmpty(serveAddr, cfg.PreviewAddr)

		errCh := make(chan error, 2)
		running := 1
		go func() { errCh <- srv.ListenAndServe(ctx, addr) }()

		if serveOSCListen != "" {
			control := osclink.NewControl(func(frame int) {
				srv.Do(func(ed *timeline.Editor) {
					ed.SetPlayhead(frame)
					mirrorFrame(link, ed)
				})
			})
			running++
			go func() { errCh <- control.Serve(ctx, serveOSCListen) }()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", args[0], addr)

		var firstErr error
		for ; running > 0; running-- {
			if err := <-errCh; err != nil && firstErr == nil {
				firstErr = err
				stop()
			}
		}
		return firstErr
	},
}

// mirrorFrame pushes the playhead frame to the renderer, if any.
func mirrorFrame(link *osclink.Link, ed *timeline.Editor) {
	if link == nil {
		return
	}
	if err := link.SendFrame(ed, ed.Playhead); err != nil {
		logging.Debug("frame %d not mirrored: %v", ed.Playhead, err)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from config, :8090)")
	serveCmd.Flags().StringVar(&serveOSC, "osc", "", "mirror frames to host:port")
	serveCmd.Flags().StringVar(&serveOSCListen, "osc-listen", "", "accept OSC playhead control on this address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "snapshot database")
	serveCmd.Flags().StringVar(&serveProject, "project", "", "snapshot project name (default: file name)")
	rootCmd.AddCommand(serveCmd)
}
