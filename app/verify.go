package app

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nautilus-earnout/kpi-engine/attest"
)

// NewVerifyCmd re-checks a hex-encoded attestation against a document file,
// an expected value, and a freshness window. It runs every check and prints
// each failure, exiting non-zero if any check failed.
func NewVerifyCmd() *cobra.Command {
	var (
		expectedValue string
		maxAge        time.Duration
		clockSkew     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "verify <documents.json> <attestation.hex>",
		Short: "Independently re-validate an attestation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(args[0])
			if err != nil {
				return err
			}

			// #nosec G304 -- caller supplies local attestation path by design
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read attestation: %w", err)
			}
			record, err := hex.DecodeString(strings.TrimSpace(string(raw)))
			if err != nil {
				return fmt.Errorf("decode attestation hex: %w", err)
			}

			attestation, err := attest.Decode(record)
			if err != nil {
				return err
			}

			expected, err := parseDecimal(expectedValue)
			if err != nil {
				return err
			}

			failures := attest.VerifyAll(attestation, attest.VerifyParams{
				ExpectedValue:      expected,
				ExpectedDocuments:  docs,
				Now:                time.Now(),
				MaxAge:             maxAge,
				ClockSkewTolerance: clockSkew,
			})

			out := cmd.OutOrStdout()
			if len(failures) == 0 {
				fmt.Fprintln(out, "attestation verified")
				return nil
			}
			for _, failure := range failures {
				fmt.Fprintln(out, failure.Error())
			}
			return fmt.Errorf("%d verification check(s) failed", len(failures))
		},
	}

	cmd.Flags().StringVar(&expectedValue, "expected-value", "0", "KPI value the verifier expects")
	cmd.Flags().DurationVar(&maxAge, "max-age", 10*time.Minute, "maximum accepted attestation age")
	cmd.Flags().DurationVar(&clockSkew, "clock-skew", 2*time.Second, "tolerated future clock skew")
	return cmd
}
