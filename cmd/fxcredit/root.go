package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fxcredit",
		Short: "FX prime-brokerage credit ledger",
		Long: `fxcredit models a two-tier FX prime-brokerage credit hierarchy:
customer limits with each prime broker, and each prime broker's credit line
with the central prime broker.

Examples:
  fxcredit serve --env-file .env
  fxcredit validate --dir configs
  fxcredit exposure --dir configs`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newValidateCmd(),
		newExposureCmd(),
		newHealthcheckCmd(),
	)

	return cmd
}
