package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/report"
	"github.com/dailyspend/dailyspend/internal/runlog"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

func newYearCommand(opts *globalOptions) *cobra.Command {
	var src sourceOptions
	cmd := &cobra.Command{
		Use:   "year <YYYY>",
		Short: "Print each month's net total and the running annual net",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 || year > 9999 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			d, err := opts.newDriver(cmd, src, report.TargetPrint)
			if err != nil {
				return err
			}
			d.Now = nowFunc
			_, err = d.Year(cmd.Context(), year)
			return err
		},
	}
	src.register(cmd)
	return cmd
}

func newYTDCommand(opts *globalOptions) *cobra.Command {
	var src sourceOptions
	cmd := &cobra.Command{
		Use:   "ytd",
		Short: "Print the net total since January 1st",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.newDriver(cmd, src, report.TargetPrint)
			if err != nil {
				return err
			}
			d.Now = nowFunc
			_, err = d.YearToDate(cmd.Context())
			return err
		},
	}
	src.register(cmd)
	return cmd
}

func newBalanceCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the current balance of the linked account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.newDriver(cmd, sourceOptions{source: sourcePlaid}, report.TargetPrint)
			if err != nil {
				return err
			}
			_, err = d.Balance(cmd.Context())
			return err
		},
	}
}

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid --limit %d", limit)
			}
			entries, err := runlog.Read(opts.dataDir)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			return report.PrintRuns(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "most recent runs to show, 0 for all")
	return cmd
}
