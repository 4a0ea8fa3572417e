package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
)

type summaryReport struct {
	Executive *domain.ExecutiveDashboard `json:"executive,omitempty"`
	Manager   *domain.ManagerDashboard   `json:"manager,omitempty"`
}

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		year int
		view string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the executive and manager dashboards",
		Long: `Print the dashboards for the export.

The executive view's monthly trend and assignee table cover one year: --year,
or the latest year with a creation date. The manager view covers the whole
dataset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if view != "executive" && view != "manager" && view != "all" {
				return fmt.Errorf("invalid --view %q: must be executive, manager or all", view)
			}

			logger := opts.logger(cmd.ErrOrStderr())
			tickets, err := opts.loadTickets(cmd.Context(), logger)
			if err != nil {
				return err
			}

			engine := opts.engine()
			var report summaryReport
			if view != "manager" {
				selected := year
				if selected == 0 {
					selected = kpi.DefaultYear(tickets, time.Now())
				}
				d := engine.BuildExecutive(tickets, selected)
				report.Executive = &d
			}
			if view != "executive" {
				d := engine.BuildManager(tickets)
				report.Manager = &d
			}

			return writeOutput(cmd.OutOrStdout(), opts.output, report)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year for the executive view (default: latest year in the data)")
	cmd.Flags().StringVar(&view, "view", "all", "Which dashboard to print (executive, manager, all)")

	return cmd
}
