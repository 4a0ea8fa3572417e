package main

import (
	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
)

// classifiedTicket is one row of the classify output.
type classifiedTicket struct {
	domain.TicketSnapshot
	WithinKPI      bool   `json:"withinKpi"`
	OutsideKPI     bool   `json:"outsideKpi"`
	ElapsedMinutes *int64 `json:"elapsedMinutes"`
}

func classified(items []kpi.Annotated) []classifiedTicket {
	out := make([]classifiedTicket, 0, len(items))
	for _, a := range items {
		row := classifiedTicket{
			TicketSnapshot: domain.NewTicketSnapshot(a.Ticket),
			WithinKPI:      a.WithinKPI,
			OutsideKPI:     a.OutsideKPI,
		}
		if a.DurationKnown {
			minutes := int64(a.Elapsed.Minutes())
			row.ElapsedMinutes = &minutes
		}
		out = append(out, row)
	}
	return out
}

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Print every ticket with its KPI classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())
			tickets, err := opts.loadTickets(cmd.Context(), logger)
			if err != nil {
				return err
			}

			annotated := opts.engine().Annotate(tickets)
			return writeOutput(cmd.OutOrStdout(), opts.output, classified(annotated))
		},
	}
}
