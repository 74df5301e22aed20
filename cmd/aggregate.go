package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/aggregate"
	"github.com/sells-group/mlprep-cli/internal/table"
)

var (
	aggInput    string
	aggOutput   string
	aggGroupKey string
	aggField    string
	aggName     string
	aggOp       string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Add a group-wise aggregation column to a table",
	Long: `Computes an aggregation of one column per distinct value of a grouping
column, and joins the result back onto every row under a new column name.

Operations: count-distinct, sum, mean.

Example:
  mlprep aggregate --input orders.csv --group-key customer_id \
      --field order_id --name order_count --op count-distinct --output out.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := table.ReadFile(aggInput)
		if err != nil {
			return eris.Wrap(err, "aggregate: read input")
		}

		out, err := aggregate.Apply(tbl, aggregate.Spec{
			GroupKey:   aggGroupKey,
			Field:      aggField,
			OutputName: aggName,
			Op:         aggregate.Op(aggOp),
		})
		if err != nil {
			return err
		}

		if err := table.WriteCSV(aggOutput, out); err != nil {
			return err
		}
		zap.L().Info("aggregate: wrote output",
			zap.String("path", aggOutput),
			zap.Int("rows", out.NumRows()),
			zap.String("op", aggOp),
		)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggInput, "input", "", "input table (.csv or .xlsx)")
	aggregateCmd.Flags().StringVar(&aggOutput, "output", "", "output CSV path")
	aggregateCmd.Flags().StringVar(&aggGroupKey, "group-key", "", "column to group by")
	aggregateCmd.Flags().StringVar(&aggField, "field", "", "column to aggregate")
	aggregateCmd.Flags().StringVar(&aggName, "name", "", "name of the new aggregation column")
	aggregateCmd.Flags().StringVar(&aggOp, "op", string(aggregate.OpCountDistinct), "operation: count-distinct, sum, or mean")
	_ = aggregateCmd.MarkFlagRequired("input")
	_ = aggregateCmd.MarkFlagRequired("output")
	_ = aggregateCmd.MarkFlagRequired("group-key")
	_ = aggregateCmd.MarkFlagRequired("field")
	_ = aggregateCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(aggregateCmd)
}
