package app

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nautilus-earnout/kpi-engine/attest"
)

// NewAttestCmd builds a signed attestation from a document file and prints
// the KPI result plus the hex-encoded 144-byte record for ledger submission.
func NewAttestCmd() *cobra.Command {
	var (
		keyPath string
		initial string
	)

	cmd := &cobra.Command{
		Use:   "attest <documents.json>",
		Short: "Build a signed attestation from a financial document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(args[0])
			if err != nil {
				return err
			}

			signer, err := loadSigner(keyPath)
			if err != nil {
				return err
			}

			initialValue, err := parseDecimal(initial)
			if err != nil {
				return err
			}

			builder := attest.NewBuilder(signer)
			attestation, result, err := builder.Build(docs, initialValue)
			if err != nil {
				return fmt.Errorf("build attestation: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "KPI value:      %s\n", result.Value.Text('f'))
			fmt.Fprintf(out, "Delta:          %s\n", result.Delta.Text('f'))
			fmt.Fprintf(out, "Last kind:      %s\n", result.LastKind)
			fmt.Fprintf(out, "Scaled value:   %d\n", attestation.KPIValueScaled)
			fmt.Fprintf(out, "Input hash:     %x\n", attestation.InputHash)
			fmt.Fprintf(out, "Timestamp (ms): %d\n", attestation.Timestamp)
			fmt.Fprintf(out, "Attestation:    %s\n", hex.EncodeToString(attestation.Encode()))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "path to a base64 ed25519 private key")
	cmd.Flags().StringVar(&initial, "initial", "0", "initial KPI value to fold from")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
