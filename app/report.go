package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fbiville/markdown-table-formatter/pkg/markdown"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/nautilus-earnout/kpi-engine/kpi"
)

// NewReportCmd aggregates a document file and renders the per-document
// contribution trace as a markdown table, the audit-replay view of the
// computation: which document contributed what, and which fields coerced to
// zero along the way.
func NewReportCmd() *cobra.Command {
	var initial string

	cmd := &cobra.Command{
		Use:   "report <documents.json>",
		Short: "Render the per-document contribution trace for audit replay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(args[0])
			if err != nil {
				return err
			}

			initialValue, err := parseDecimal(initial)
			if err != nil {
				return err
			}

			result := kpi.Aggregate(docs, initialValue)

			rows := lo.Map(result.Contributions, func(c kpi.Contribution, _ int) []string {
				return []string{
					strconv.Itoa(c.Index),
					c.Kind.String(),
					c.Delta.Text('f'),
					strings.Join(c.ZeroNotes, "; "),
				}
			})

			table, err := markdown.NewTableFormatterBuilder().
				WithPrettyPrint().
				Build("#", "Kind", "Delta", "Zero notes").
				Format(rows)
			if err != nil {
				return fmt.Errorf("format contribution table: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, table)
			fmt.Fprintf(out, "\nKPI value: %s (delta %s, last kind %s)\n",
				result.Value.Text('f'), result.Delta.Text('f'), result.LastKind)
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "0", "initial KPI value to fold from")
	return cmd
}
