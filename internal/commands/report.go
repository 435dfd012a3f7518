package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dailyspend/dailyspend/internal/daterange"
	"github.com/dailyspend/dailyspend/internal/model"
	"github.com/dailyspend/dailyspend/internal/report"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	var (
		src       sourceOptions
		printOut  bool
		persist   bool
		rolling   bool
		yesterday bool
		channel   string
		start     string
		end       string
		by        string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Total transactions over a date range and deliver the result",
		Long: `Total transactions over a date range and deliver the result.

With no dates the range is the current month, or yesterday through today
with --yesterday. A single --start or --end spans 30 days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate user input before touching any credential or remote service.
			startDate, err := daterange.Parse(start)
			if err != nil {
				return err
			}
			endDate, err := daterange.Parse(end)
			if err != nil {
				return err
			}
			mode, err := model.ParseMode(by)
			if err != nil {
				return err
			}

			target := report.Target(channel)
			switch {
			case printOut:
				target = report.TargetPrint
			case persist:
				target = report.TargetPersist
			}
			if target, err = report.ParseTarget(string(target)); err != nil {
				return err
			}
			if rolling && target != report.TargetPersist {
				return fmt.Errorf("--rolling requires --persist")
			}

			def := daterange.DefaultMonth
			if yesterday {
				def = daterange.DefaultYesterday
			}
			if _, err := daterange.Resolve(startDate, endDate, nowFunc(), def); err != nil {
				return err
			}

			d, err := opts.newDriver(cmd, src, target)
			if err != nil {
				return err
			}
			d.Now = nowFunc

			_, err = d.Run(cmd.Context(), report.Request{
				Start:   startDate,
				End:     endDate,
				Default: def,
				Mode:    mode,
				Target:  target,
				Rolling: rolling,
			})
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&printOut, "print", false, "print to the console instead of notifying")
	f.BoolVar(&persist, "persist", false, "write the month's JSON snapshot instead of notifying")
	f.BoolVar(&rolling, "rolling", false, "with --persist, add to the month's existing totals")
	f.BoolVar(&yesterday, "yesterday", false, "default range is yesterday through today")
	f.StringVar(&channel, "notify", string(report.TargetSMS), "notification channel: sms or email")
	f.StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	f.StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	f.StringVar(&by, "by", string(model.ModeCategory), "group by category or merchant")
	cmd.MarkFlagsMutuallyExclusive("print", "persist", "notify")
	src.register(cmd)

	return cmd
}
