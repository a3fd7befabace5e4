package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/backlog-report/factory"
)

func newScenariosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := factory.NewScenarioFactory().Presets()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTART\tBACKLOG\tPROCESS/DAY\tNEW/DAY\tDESCRIPTION")
			for _, sc := range presets {
				p := sc.Params
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					sc.ID, p.Start(), p.BacklogStart, p.ProcessPerDay, p.NewPerDay, sc.Description)
			}
			return tw.Flush()
		},
	}
}
