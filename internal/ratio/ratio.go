// Package ratio expands a numeric feature matrix with pairwise ratio
// columns, optionally over a polynomial feature basis. The expansion is
// deliberately exhaustive: reciprocal and algebraically equivalent columns
// are kept so a later feature-selection step can prune them.
package ratio

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// BuildRatioTable returns a table holding the input features followed by
// every ordered pairwise ratio column "{a}_by_{b}", a != b. Pairs are
// generated with the first index as the outer loop. Division by zero
// produces IEEE Inf or NaN cells rather than an error.
func BuildRatioTable(x [][]float64, featureNames []string) (*table.Table, error) {
	if err := validate(x, len(featureNames)); err != nil {
		return nil, err
	}
	return ratioExpand(x, featureNames), nil
}

// BuildPolynomialRatioTable first expands the matrix into the fitted
// expander's polynomial basis, then applies the same all-pairs ratio
// expansion over the expanded feature set, including ratios between
// original and derived terms.
func BuildPolynomialRatioTable(x [][]float64, expander *PolynomialExpander) (*table.Table, error) {
	expanded, err := expander.Transform(x)
	if err != nil {
		return nil, err
	}
	return ratioExpand(expanded, expander.FeatureNames()), nil
}

func validate(x [][]float64, width int) error {
	for i, row := range x {
		if len(row) != width {
			return eris.Errorf("ratio: row %d has %d features, want %d", i, len(row), width)
		}
	}
	return nil
}

func ratioExpand(x [][]float64, names []string) *table.Table {
	type pair struct{ a, b int }
	var pairs []pair
	for a := range names {
		for b := range names {
			if a != b {
				pairs = append(pairs, pair{a, b})
			}
		}
	}

	columns := append([]string(nil), names...)
	for _, p := range pairs {
		columns = append(columns, names[p.a]+"_by_"+names[p.b])
	}

	t := table.New(columns)
	t.Rows = make([][]string, len(x))
	for i, row := range x {
		cells := make([]string, 0, len(columns))
		for _, v := range row {
			cells = append(cells, formatFloat(v))
		}
		for _, p := range pairs {
			cells = append(cells, formatFloat(row[p.a]/row[p.b]))
		}
		t.Rows[i] = cells
	}
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
