package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/table"
	"github.com/sells-group/mlprep-cli/internal/timefeat"
)

var (
	tsInput  string
	tsOutput string
)

var timestampsCmd = &cobra.Command{
	Use:   "timestamps",
	Short: "Decompose timestamp columns into categorical features",
	Long: `Replaces every timestamp column with calendar, time-of-day, and
holiday-proximity features. Derived values are emitted as text tokens so
categorical encoders do not impose false ordinal distance (ISO week 52
and week 1 are adjacent). The source timestamp columns are dropped.

Example:
  mlprep timestamps --input events.csv --output out.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := table.ReadFile(tsInput)
		if err != nil {
			return eris.Wrap(err, "timestamps: read input")
		}

		out, err := timefeat.Decompose(tbl)
		if err != nil {
			return err
		}

		if err := table.WriteCSV(tsOutput, out); err != nil {
			return err
		}
		zap.L().Info("timestamps: wrote output",
			zap.String("path", tsOutput),
			zap.Int("rows", out.NumRows()),
			zap.Int("columns", len(out.Columns)),
		)
		return nil
	},
}

func init() {
	timestampsCmd.Flags().StringVar(&tsInput, "input", "", "input table (.csv or .xlsx)")
	timestampsCmd.Flags().StringVar(&tsOutput, "output", "", "output CSV path")
	_ = timestampsCmd.MarkFlagRequired("input")
	_ = timestampsCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(timestampsCmd)
}
