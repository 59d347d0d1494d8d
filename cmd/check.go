package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"backlinks/internal/config"
	"backlinks/internal/ingest"
	"backlinks/internal/report"
	"backlinks/pkg/domain"
	"backlinks/pkg/logger"
	"backlinks/pkg/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
)

type checkFlags struct {
	competitor    string
	client        string
	out           string
	format        string
	reason        bool
	enrich        bool
	clientContext string
}

func checkCommand(cfg *config.Config) *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Lists competitor backlinks the client does not have yet and flags risky ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.format != formatTable && f.format != formatCSV {
				return fmt.Errorf("unsupported format %q, expected %s or %s", f.format, formatTable, formatCSV)
			}
			if cmd.Flags().Changed("enrich") {
				cfg.Enrichment.Enabled = f.enrich
			}
			if f.clientContext != "" {
				cfg.Enrichment.ClientContext = f.clientContext
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runCheck(ctx, cfg, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&f.competitor, "competitor", "", "CSV export of the competitor's backlinks")
	cmd.Flags().StringVar(&f.client, "client", "", "CSV export of the client's backlinks")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the CSV report to this file ("+report.Filename+" is suggested)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format on stdout: table or csv")
	cmd.Flags().BoolVar(&f.reason, "reason", true, "Include the Reason column in CSV output")
	cmd.Flags().BoolVar(&f.enrich, "enrich", false, "Assess every opportunity with the enrichment provider")
	cmd.Flags().StringVar(&f.clientContext, "client-context", "", "Short description of the client's site for enrichment")
	_ = cmd.MarkFlagRequired("competitor")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runCheck(ctx context.Context, cfg *config.Config, f checkFlags, stdout, stderr io.Writer) error {
	competitor, err := ingest.ReadURLFile(f.competitor)
	if err != nil {
		return err //nolint: wrapcheck
	}
	client, err := ingest.ReadURLFile(f.client)
	if err != nil {
		return err //nolint: wrapcheck
	}

	a, err := newAnalyzer(ctx, cfg, metrics.New(nil))
	if err != nil {
		return err
	}

	rep, err := a.Analyze(ctx, competitor, client)
	if err != nil {
		return err //nolint: wrapcheck
	}

	if f.out != "" {
		if err := writeCSVFile(f.out, rep, report.Options{Reason: f.reason}); err != nil {
			return err
		}
		logger.Info(ctx, "report written", zap.String("path", f.out))
	}

	switch f.format {
	case formatCSV:
		if err := report.WriteCSV(stdout, rep, report.Options{Reason: f.reason}); err != nil {
			return err //nolint: wrapcheck
		}
		_, err = fmt.Fprintln(stderr, report.Summary(rep))
	default:
		width := report.DefaultWidth
		if out, ok := stdout.(*os.File); ok {
			width = report.TerminalWidth(out)
		}
		err = report.WriteTable(stdout, rep, width)
	}

	return err //nolint: wrapcheck
}

func writeCSVFile(path string, rep *domain.Report, opts report.Options) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if err := report.WriteCSV(file, rep, opts); err != nil {
		return fmt.Errorf("could not write report file: %w", err)
	}

	return nil
}
