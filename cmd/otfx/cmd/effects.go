package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
)

var effectsCmd = &cobra.Command{
	Use:   "effects [name...]",
	Short: "List the effect catalog",
	Long: `List the builtin effects plus any from --catalog, with their
parameters. Names restrict the listing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(loadConfig())
		if err != nil {
			return err
		}
		names := args
		if len(names) == 0 {
			names = reg.SortedNames()
		}
		w := cmd.OutOrStdout()
		for _, name := range names {
			spec, ok := reg.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown effect %q", name)
			}
			printEffect(w, spec)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(effectsCmd)
}

func printEffect(w io.Writer, spec registry.EffectSpec) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(spec.Name), labelStyle.Render(spec.Label))
	for _, p := range spec.Params {
		rng := ""
		if p.Type == registry.ParamFloat || p.Type == registry.ParamInt {
			rng = fmt.Sprintf(" [%g, %g]", p.Min, p.Max)
		}
		auto := ""
		if p.Automatable() {
			auto = " " + laneStyle.Render("automatable")
		}
		fmt.Fprintf(w, "  %s: %s%s = %v%s\n", p.Name, p.Type, rng, p.Default, auto)
	}
}
