package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/backlog-report/report"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved projection runs",
		Long:  `Lists, shows or deletes runs saved by "backlog report --save" or the HTTP API.`,
	}
	cmd.AddCommand(newRunsListCmd(a), newRunsShowCmd(a), newRunsDeleteCmd(a))
	return cmd
}

func newRunsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			list, err := runs.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTART\tBACKLOG\tCREATED")
			for _, r := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Name, r.Params.Start(), r.Params.BacklogStart,
					r.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newRunsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved run as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			run, err := runs.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", run.Name, run.ID)

			proj := run.Projection()
			whatIf, err := run.WhatIf()
			if err != nil {
				return err
			}
			if s, ok := proj.Summary(); ok {
				fmt.Fprintln(out, report.Narrative(s, whatIf))
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			titles := make([]string, len(report.Columns))
			for i, c := range report.Columns {
				titles[i] = c.Title
			}
			fmt.Fprintln(tw, strings.Join(titles, "\t")+"\t")
			for _, r := range proj.Records {
				fmt.Fprintln(tw, strings.Join(report.DisplayRow(r), "\t")+"\t")
			}
			return tw.Flush()
		},
	}
}

func newRunsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := runs.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}
