package main

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/ratio"
	"github.com/sells-group/mlprep-cli/internal/table"
)

var (
	ratioInput    string
	ratioOutput   string
	ratioFeatures string
	ratioPoly     bool
	ratioDegree   int
	ratioBias     bool
)

var ratiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "Expand numeric features with all pairwise ratio columns",
	Long: `Generates every ordered pairwise ratio of the selected numeric features
as new columns named {a}_by_{b}. With --poly the features are first
expanded into their polynomial basis and the ratios cover the expanded
set too. Equivalent and reciprocal columns are kept; prune them with a
downstream feature-selection step.

Example:
  mlprep ratios --input iris.csv --features sepal_length,sepal_width \
      --poly --degree 2 --output out.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tbl, err := table.ReadFile(ratioInput)
		if err != nil {
			return eris.Wrap(err, "ratios: read input")
		}

		names := tbl.Columns
		if ratioFeatures != "" {
			names = strings.Split(ratioFeatures, ",")
			for i := range names {
				names[i] = strings.TrimSpace(names[i])
			}
		}

		x, err := matrixOf(tbl, names)
		if err != nil {
			return err
		}

		var out *table.Table
		if ratioPoly {
			expander := ratio.NewPolynomialExpander(ratioDegree, ratioBias)
			if err := expander.Fit(names); err != nil {
				return err
			}
			out, err = ratio.BuildPolynomialRatioTable(x, expander)
		} else {
			out, err = ratio.BuildRatioTable(x, names)
		}
		if err != nil {
			return err
		}

		if err := table.WriteCSV(ratioOutput, out); err != nil {
			return err
		}
		zap.L().Info("ratios: wrote output",
			zap.String("path", ratioOutput),
			zap.Int("rows", out.NumRows()),
			zap.Int("columns", len(out.Columns)),
		)
		return nil
	},
}

// matrixOf extracts the named columns as a float matrix.
func matrixOf(tbl *table.Table, names []string) ([][]float64, error) {
	idxs := make([]int, len(names))
	for i, name := range names {
		idx, err := tbl.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = idx
	}

	x := make([][]float64, tbl.NumRows())
	for r, row := range tbl.Rows {
		x[r] = make([]float64, len(idxs))
		for c, idx := range idxs {
			v, err := strconv.ParseFloat(row[idx], 64)
			if err != nil {
				return nil, eris.Wrapf(err, "ratios: parse %s row %d", names[c], r)
			}
			x[r][c] = v
		}
	}
	return x, nil
}

func init() {
	ratiosCmd.Flags().StringVar(&ratioInput, "input", "", "input table (.csv or .xlsx)")
	ratiosCmd.Flags().StringVar(&ratioOutput, "output", "", "output CSV path")
	ratiosCmd.Flags().StringVar(&ratioFeatures, "features", "", "comma-separated feature columns (default: all)")
	ratiosCmd.Flags().BoolVar(&ratioPoly, "poly", false, "expand into a polynomial basis first")
	ratiosCmd.Flags().IntVar(&ratioDegree, "degree", 2, "polynomial degree (with --poly)")
	ratiosCmd.Flags().BoolVar(&ratioBias, "bias", false, "include the constant bias term (with --poly)")
	_ = ratiosCmd.MarkFlagRequired("input")
	_ = ratiosCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(ratiosCmd)
}
