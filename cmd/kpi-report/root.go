package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/adapters/secondary/importer"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/kpi"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
)

// options holds the flags shared by every subcommand.
type options struct {
	file     string
	format   string
	output   string
	logLevel string

	highest time.Duration
	high    time.Duration
	medium  time.Duration
	low     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := kpi.DefaultThresholds()

	cmd := &cobra.Command{
		Use:   "kpi-report",
		Short: "Compute ticket KPI dashboards from an export file",
		Long: `kpi-report reads a CSV, XLSX or JSON ticket export and prints the
dashboards the API serves, or every ticket with its KPI classification.

Examples:
  kpi-report summary --file tickets.xlsx                # Both views, latest year
  kpi-report summary --file tickets.csv --year 2023 --view executive
  kpi-report classify --file tickets.json --output yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "", "Ticket export to read (.csv, .xlsx or .json)")
	flags.StringVar(&opts.format, "format", "", "Override format detection (csv, xlsx, json)")
	flags.StringVarP(&opts.output, "output", "o", "json", "Output format (json, yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")
	flags.DurationVar(&opts.highest, "highest", defaults[domain.PriorityHighest], "Resolution threshold for Highest priority")
	flags.DurationVar(&opts.high, "high", defaults[domain.PriorityHigh], "Resolution threshold for High priority")
	flags.DurationVar(&opts.medium, "medium", defaults[domain.PriorityMedium], "Resolution threshold for Medium priority")
	flags.DurationVar(&opts.low, "low", defaults[domain.PriorityLow], "Resolution threshold for Low priority")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(newSummaryCmd(opts))
	cmd.AddCommand(newClassifyCmd(opts))

	return cmd
}

// validate rejects flag values the engine or writers would otherwise ignore
// or fail on late.
func (o *options) validate() error {
	thresholds := []struct {
		flag  string
		value time.Duration
	}{
		{"highest", o.highest},
		{"high", o.high},
		{"medium", o.medium},
		{"low", o.low},
	}
	for _, th := range thresholds {
		if th.value <= 0 {
			return fmt.Errorf("--%s must be a positive duration, got %s", th.flag, th.value)
		}
	}

	if _, err := logging.ParseLevel(o.logLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	if !validOutput(o.output) {
		return fmt.Errorf("--output must be %s or %s, got %q", outputJSON, outputYAML, o.output)
	}
	return nil
}

func (o *options) engine() *kpi.Engine {
	return kpi.NewEngine(kpi.Thresholds{
		domain.PriorityHighest: o.highest,
		domain.PriorityHigh:    o.high,
		domain.PriorityMedium:  o.medium,
		domain.PriorityLow:     o.low,
	})
}

func (o *options) logger(w io.Writer) *slog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	cfg.Format = "text"
	cfg.Output = w
	cfg.ServiceName = "kpi-report"
	cfg.Environment = "cli"
	return logging.NewLogger(cfg)
}

// loadTickets reads and normalizes every ticket in the export file.
func (o *options) loadTickets(ctx context.Context, logger *slog.Logger) ([]domain.Ticket, error) {
	format := domain.ImportFormat(o.format)
	if format == "" {
		detected, err := services.DetectFormat(o.file)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	f, err := os.Open(o.file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := importer.NewParser().Parse(ctx, format, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", o.file, err)
	}
	if parsed.Skipped > 0 {
		logger.Warn("rows skipped", "file", o.file, "count", parsed.Skipped)
	}

	tickets := make([]domain.Ticket, 0, len(parsed.Rows))
	for _, raw := range parsed.Rows {
		tickets = append(tickets, domain.NewTicket(raw))
	}
	logger.Info("dataset loaded", "file", o.file, "format", format, "tickets", len(tickets))
	return tickets, nil
}
