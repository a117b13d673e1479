package main

import (
	"errors"
	"fmt"

	"github.com/efreitasn/fxcredit/internal/loader"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a configuration directory and check its integrity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			snap, err := loader.LoadDir(dir)
			var integrityErr *loader.IntegrityError
			if err != nil && !errors.As(err, &integrityErr) {
				return fmt.Errorf("load %s: %w", dir, err)
			}

			fmt.Fprintf(out, "prime brokers:   %d\n", len(snap.PrimeBrokers))
			fmt.Fprintf(out, "customers:       %d\n", len(snap.Customers))
			fmt.Fprintf(out, "sessions:        %d\n", len(snap.Sessions))
			fmt.Fprintf(out, "customer limits: %d\n", len(snap.CustomerLimits))
			fmt.Fprintf(out, "credit lines:    %d\n", len(snap.PBCreditLines))

			if integrityErr != nil {
				for _, p := range integrityErr.Problems {
					fmt.Fprintf(out, "problem: %s\n", p)
				}
				return fmt.Errorf("%s: %d integrity problem(s)", dir, len(integrityErr.Problems))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "configs", "directory holding the four YAML files")

	return cmd
}
