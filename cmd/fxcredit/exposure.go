package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
	"github.com/efreitasn/fxcredit/internal/ledger"
	"github.com/efreitasn/fxcredit/internal/loader"
	"github.com/spf13/cobra"
)

func newExposureCmd() *cobra.Command {
	var (
		dir        string
		staleAfter time.Duration
	)

	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Print each prime broker's exposure against its credit line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loader.LoadDir(dir)
			var integrityErr *loader.IntegrityError
			if err != nil && !errors.As(err, &integrityErr) {
				return fmt.Errorf("load %s: %w", dir, err)
			}

			l := ledger.FromSnapshot(snap, slog.New(slog.NewTextHandler(io.Discard, nil)))
			opts := ledger.DefaultAuditOptions()
			opts.StaleAfter = staleAfter

			printExposure(cmd.OutOrStdout(), l, time.Now(), opts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "configs", "directory holding the four YAML files")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", 24*time.Hour, "age after which a customer limit is reported stale")

	return cmd
}

func printExposure(out io.Writer, l *ledger.CreditLedger, now time.Time, opts ledger.AuditOptions) {
	for _, pb := range l.PrimeBrokers() {
		if pb.IsCentral {
			continue
		}
		r, err := l.ValidatePBExposure(pb.ID)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", pb.ID, err)
			continue
		}

		status := "OK"
		if !r.IsWithinLimit {
			status = "OVER"
		}
		fmt.Fprintf(out, "%s (%s): issued %s / line %s = %s%% across %d customer(s) [%s]\n",
			r.PBID, r.PBName,
			domain.FormatAmount(r.TotalIssued),
			domain.FormatAmount(r.CreditLine),
			r.Utilization.StringFixed(2),
			r.CustomerCount,
			status,
		)
	}

	findings := l.Audit(now, opts)
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, f := range findings {
		fmt.Fprintf(out, "%-7s %-16s %s\n", f.Severity, f.Kind, f.Message)
	}
}
