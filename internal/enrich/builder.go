package enrich

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/sells-group/mlprep-cli/internal/table"
	"github.com/sells-group/mlprep-cli/pkg/zipsearch"
)

// MetricColumns are the zip-level metrics heading every enriched row, in
// output order. The originating row's columns follow them.
var MetricColumns = []string{
	"zipcode", "major_city", "lat", "lng", "timezone",
	"radius_in_miles", "population", "population_density",
	"housing_units", "occupied_housing_units",
	"median_home_value", "median_household_income",
}

// unresolvableColumns head the unresolvable-record log.
var unresolvableColumns = []string{"postal_code", "city", "state", "error"}

// Builder materializes the municipal area of one address query: one
// enriched row per zip record the lookup returns, each carrying all the
// originating row's fields. A query's rows are appended to the shared
// output file once the whole query maps, so a long batch can be
// inspected mid-flight and a failed query contributes no rows.
type Builder struct {
	lookup       *Lookup
	unresolvable table.Appender
	output       table.Appender
	rowColumns   []string
}

// NewBuilder creates a Builder over the given lookup and sinks.
func NewBuilder(lookup *Lookup, unresolvable, output table.Appender, rowColumns []string) *Builder {
	return &Builder{
		lookup:       lookup,
		unresolvable: unresolvable,
		output:       output,
		rowColumns:   rowColumns,
	}
}

// Columns returns the output schema: metrics first, then the source row's
// columns.
func (b *Builder) Columns() []string {
	return append(append([]string(nil), MetricColumns...), b.rowColumns...)
}

// Build resolves the query and returns the enriched table. An address the
// service rejects or a record whose attributes cannot be mapped yields an
// empty table after durable logging; only infrastructure failures return
// an error.
func (b *Builder) Build(ctx context.Context, q AddressQuery, mode Mode, limit int) (*table.Table, error) {
	records, err := b.lookup.Lookup(ctx, q, mode, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return table.New(b.Columns()), nil
	}

	out := table.New(b.Columns())
	norm := q.Normalized()
	for _, rec := range records {
		metrics, err := mapRecord(rec)
		if err != nil {
			zap.L().Warn("enrich: unresolvable record",
				zap.String("city", norm.City),
				zap.String("state", norm.State),
				zap.String("zip", norm.Zip),
				zap.Error(err),
			)
			row := []string{norm.Zip, norm.City, norm.State, err.Error()}
			if logErr := b.unresolvable.Append(unresolvableColumns, row); logErr != nil {
				return nil, eris.Wrap(logErr, "enrich: log unresolvable record")
			}
			return table.New(b.Columns()), nil
		}

		enriched := append(metrics, q.Row...)
		if err := out.AppendRow(enriched); err != nil {
			return nil, err
		}
	}

	// Persist only once every record mapped; a query that fails partway
	// must contribute nothing to the output file.
	for _, row := range out.Rows {
		if err := b.output.Append(out.Columns, row); err != nil {
			return nil, eris.Wrap(err, "enrich: append output")
		}
	}
	return out, nil
}

// mapRecord flattens a zip record into metric cells. Missing demographic
// values fill as zero; anything present must coerce to an integer.
func mapRecord(rec zipsearch.Record) ([]string, error) {
	if rec.Zipcode == "" {
		return nil, eris.New("record has no zipcode")
	}

	cells := []string{
		rec.Zipcode,
		rec.MajorCity,
		strconv.FormatFloat(rec.Lat, 'g', -1, 64),
		strconv.FormatFloat(rec.Lng, 'g', -1, 64),
		rec.Timezone,
	}
	for _, v := range []any{
		rec.RadiusInMiles, rec.Population, rec.PopulationDensity,
		rec.HousingUnits, rec.OccupiedHousingUnits,
		rec.MedianHomeValue, rec.MedianHouseholdIncome,
	} {
		n, err := coerceInt(v)
		if err != nil {
			return nil, err
		}
		cells = append(cells, strconv.Itoa(n))
	}
	return cells, nil
}

func coerceInt(v any) (int, error) {
	if v == nil {
		return 0, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, eris.Wrap(err, "coerce metric")
	}
	return n, nil
}
