package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/internal/store"
)

var (
	storeDB      string
	storeName    string
	storeLabel   string
	storeID      int64
	storeLimit   int
	storeKeep    int
	storeOutPath string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage project snapshots in a sqlite database",
	Long: `Save project documents as numbered snapshots and restore them later.

Examples:
  otfx store save show.json --db snapshots.db --label "before grading"
  otfx store history show --db snapshots.db
  otfx store load show --db snapshots.db --id 3 -o show.json`,
}

var storeSaveCmd = &cobra.Command{
	Use:   "save <project.json>",
	Short: "Store a project as a new snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ed, err := loadProject(cfg, args[0])
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(st *store.Store) error {
			name := storeName
			if name == "" {
				name = projectKey(args[0])
			}
			id, err := st.Save(cmd.Context(), name, storeLabel, ed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %d of %s saved\n", id, name)
			return nil
		})
	},
}

var storeLoadCmd = &cobra.Command{
	Use:   "load <project>",
	Short: "Restore a snapshot into a project file",
	Long: `Restore a snapshot into a project file. Without --id the latest
snapshot of the project is restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed, err := newEditor(loadConfig())
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(st *store.Store) error {
			snap, err := st.Load(cmd.Context(), args[0], storeID, ed)
			if err != nil {
				return err
			}
			out := storeOutPath
			if out == "" {
				out = snap.Project + ".json"
			}
			if err := writeProject(ed, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %d restored to %s\n", snap.ID, out)
			return nil
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st *store.Store) error {
			projects, err := st.Projects(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(w, "no snapshots")
				return nil
			}
			fmt.Fprintln(w, titleStyle.Render("Projects"))
			for _, p := range projects {
				fmt.Fprintf(w, "  %-24s %3d snapshots  %s\n", p.Name, p.Snapshots,
					labelStyle.Render(p.Updated.Format(time.DateTime)))
			}
			return nil
		})
	},
}

var storeHistoryCmd = &cobra.Command{
	Use:   "history <project>",
	Short: "List the snapshots of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st *store.Store) error {
			snaps, err := st.History(cmd.Context(), args[0], storeLimit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintf(w, "no snapshots of %s\n", args[0])
				return nil
			}
			fmt.Fprintln(w, titleStyle.Render("History of "+args[0]))
			for _, s := range snaps {
				label := s.Label
				if label == "" {
					label = "-"
				}
				fmt.Fprintf(w, "  #%-4d %s  %6d bytes  %s\n", s.ID,
					labelStyle.Render(s.CreatedAt.Format(time.DateTime)), s.Size, label)
			}
			return nil
		})
	},
}

var storePruneCmd = &cobra.Command{
	Use:   "prune <project>",
	Short: "Delete all but the newest snapshots of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(st *store.Store) error {
			n, err := st.Prune(cmd.Context(), args[0], storeKeep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d snapshots removed\n", n)
			return nil
		})
	},
}

// withStore opens --db, else the configured database, for the duration
// of fn.
func withStore(ctx context.Context, fn func(st *store.Store) error) error {
	path := firstNonEmpty(storeDB, loadConfig().StorePath)
	if path == "" {
		return fmt.Errorf("no snapshot database: pass --db or set store_path")
	}
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// projectKey derives the snapshot project name from a file path.
func projectKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	storeCmd.PersistentFlags().StringVar(&storeDB, "db", "", "snapshot database (default from config)")

	storeSaveCmd.Flags().StringVar(&storeName, "name", "", "project name (default: file name)")
	storeSaveCmd.Flags().StringVar(&storeLabel, "label", "", "snapshot label")
	storeLoadCmd.Flags().Int64Var(&storeID, "id", 0, "snapshot ID (default: latest)")
	storeLoadCmd.Flags().StringVarP(&storeOutPath, "output", "o", "", "output file (default: <project>.json)")
	storeHistoryCmd.Flags().IntVar(&storeLimit, "limit", 20, "maximum entries (0 = all)")
	storePruneCmd.Flags().IntVar(&storeKeep, "keep", 10, "snapshots to keep")

	storeCmd.AddCommand(storeSaveCmd, storeLoadCmd, storeListCmd, storeHistoryCmd, storePruneCmd)
	rootCmd.AddCommand(storeCmd)
}
