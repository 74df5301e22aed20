package enrich

import (
	"context"
	"math"
	"strconv"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// numericMetrics are the metric columns summarized by Generalize.
var numericMetrics = []string{
	"lat", "lng", "radius_in_miles", "population", "population_density",
	"housing_units", "occupied_housing_units",
	"median_home_value", "median_household_income",
}

var summaryStatistics = []string{"count", "mean", "std", "min", "max"}

// Generalize builds the municipal area for a city/state query and reduces
// it to summary statistics per numeric metric, a coarse geographic
// generalization for when individual zip rows are too fine-grained. The
// result carries one row per statistic, labeled with the query's city
// and state.
func (b *Builder) Generalize(ctx context.Context, q AddressQuery, limit int) (*table.Table, error) {
	area, err := b.Build(ctx, q, ByCityState, limit)
	if err != nil {
		return nil, err
	}

	columns := append(append([]string{"statistic"}, numericMetrics...), "city", "state")
	out := table.New(columns)

	values := make(map[string][]float64, len(numericMetrics))
	for _, metric := range numericMetrics {
		idx, err := area.ColumnIndex(metric)
		if err != nil {
			return nil, err
		}
		col := make([]float64, 0, area.NumRows())
		for _, row := range area.Rows {
			v, err := strconv.ParseFloat(row[idx], 64)
			if err != nil {
				continue
			}
			col = append(col, v)
		}
		values[metric] = col
	}

	norm := q.Normalized()
	for _, stat := range summaryStatistics {
		row := []string{stat}
		for _, metric := range numericMetrics {
			row = append(row, formatStat(stat, values[metric]))
		}
		row = append(row, norm.City, norm.State)
		if err := out.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func formatStat(stat string, col []float64) string {
	if stat == "count" {
		return strconv.Itoa(len(col))
	}
	if len(col) == 0 {
		return ""
	}
	var v float64
	switch stat {
	case "mean":
		v = mean(col)
	case "std":
		v = stddev(col)
	case "min":
		v = col[0]
		for _, x := range col[1:] {
			v = math.Min(v, x)
		}
	case "max":
		v = col[0]
		for _, x := range col[1:] {
			v = math.Max(v, x)
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func mean(col []float64) float64 {
	sum := 0.0
	for _, x := range col {
		sum += x
	}
	return sum / float64(len(col))
}

// stddev is the sample standard deviation; a single observation has none.
func stddev(col []float64) float64 {
	if len(col) < 2 {
		return math.NaN()
	}
	m := mean(col)
	var ss float64
	for _, x := range col {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(col)-1))
}
