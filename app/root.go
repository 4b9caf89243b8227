// Package app assembles the kpi-attest command tree: build attestations,
// verify them, and render contribution reports for audit replay.
package app

import (
	"github.com/spf13/cobra"
)

// RootCmd creates the kpi-attest root command with every subcommand
// attached.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kpi-attest",
		Short:         "Compute earn-out KPIs and produce ledger attestations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		NewAttestCmd(),
		NewVerifyCmd(),
		NewReportCmd(),
		NewVersionCmd(),
	)
	return cmd
}
