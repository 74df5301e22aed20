// Package aggregate implements group-wise aggregation features: an
// operation is computed per distinct value of a grouping key and joined
// back onto every row sharing that key as a new column.
package aggregate

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mlprep-cli/internal/table"
)

// Op identifies a supported aggregation operation.
type Op string

const (
	// OpCountDistinct counts distinct non-empty values of the grouped field.
	OpCountDistinct Op = "count-distinct"
	// OpSum sums the grouped field, parsed as a float.
	OpSum Op = "sum"
	// OpMean averages the grouped field, parsed as a float.
	OpMean Op = "mean"
)

// Spec describes one aggregation feature to derive.
type Spec struct {
	GroupKey   string
	Field      string
	OutputName string
	Op         Op
}

// Apply computes the spec's operation per distinct grouping-key value and
// left-joins the result back onto the input under OutputName. Row count and
// order are preserved; the new column is appended after the existing ones.
// Missing input columns surface as *table.SchemaError.
func Apply(t *table.Table, s Spec) (*table.Table, error) {
	keyIdx, err := t.ColumnIndex(s.GroupKey)
	if err != nil {
		return nil, err
	}
	fieldIdx, err := t.ColumnIndex(s.Field)
	if err != nil {
		return nil, err
	}

	var byKey map[string]string
	switch s.Op {
	case OpCountDistinct:
		byKey = countDistinct(t.Rows, keyIdx, fieldIdx)
	case OpSum, OpMean:
		byKey, err = sumOrMean(t.Rows, keyIdx, fieldIdx, s)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("aggregate: unknown operation %q", s.Op)
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = byKey[row[keyIdx]]
	}
	return t.WithColumn(s.OutputName, values)
}

func countDistinct(rows [][]string, keyIdx, fieldIdx int) map[string]string {
	distinct := make(map[string]map[string]struct{})
	for _, row := range rows {
		key := row[keyIdx]
		if distinct[key] == nil {
			distinct[key] = make(map[string]struct{})
		}
		if v := row[fieldIdx]; v != "" {
			distinct[key][v] = struct{}{}
		}
	}
	out := make(map[string]string, len(distinct))
	for key, set := range distinct {
		out[key] = strconv.Itoa(len(set))
	}
	return out
}

func sumOrMean(rows [][]string, keyIdx, fieldIdx int, s Spec) (map[string]string, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, row := range rows {
		v, err := strconv.ParseFloat(row[fieldIdx], 64)
		if err != nil {
			return nil, eris.Wrapf(err, "aggregate: parse %s row %d", s.Field, i)
		}
		sums[row[keyIdx]] += v
		counts[row[keyIdx]]++
	}
	out := make(map[string]string, len(sums))
	for key, sum := range sums {
		v := sum
		if s.Op == OpMean {
			v = sum / float64(counts[key])
		}
		out[key] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out, nil
}
